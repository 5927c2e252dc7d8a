package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// MockLLMService stands in for the chat completions client
type MockLLMService struct {
	mock.Mock
}

func (m *MockLLMService) GenerateRecipe(ctx context.Context, prompt *service.RecipePrompt) (*types.GeneratedRecipe, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeneratedRecipe), args.Error(1)
}

func (m *MockLLMService) GetDraft(ctx context.Context, draftID string) (*types.GeneratedRecipe, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeneratedRecipe), args.Error(1)
}

// memoryStore keeps uploaded objects in a map
type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStore) DeleteObject(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://images.example.com/" + key, nil
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	llm    *MockLLMService
	store  *memoryStore
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	auth := service.NewAuthService(db, "test-secret")
	llm := &MockLLMService{}
	store := &memoryStore{objects: map[string][]byte{}}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	RegisterRoutes(router, Dependencies{
		Auth:              auth,
		Profiles:          service.NewProfileService(db),
		MealPlans:         service.NewMealPlanService(db),
		MealSlots:         service.NewMealSlotService(db),
		Foods:             service.NewFoodService(db),
		FoodLogs:          service.NewFoodLogService(db),
		Recipes:           service.NewRecipeService(db, service.NewEmbeddingService()),
		LLM:               llm,
		Images:            service.NewImageService(store),
		GenerationLimiter: middleware.NewRecipeGenerationRateLimiter(nil, 5),
		ImageLimiter:      middleware.NewRecipeImageRateLimiter(nil),
	})

	return &testAPI{router: router, db: db, auth: auth, llm: llm, store: store}
}

// userWithToken creates a user and signs a token for it.
func (a *testAPI) userWithToken(t *testing.T, name string, mutate func(*models.Profile)) (*models.User, string) {
	t.Helper()
	user, _ := testhelpers.CreateUser(t, a.db, name, mutate)
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
