package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const (
	llmTimeout    = 30 * time.Second
	draftTTL      = 24 * time.Hour
	draftKeySpace = "recipe:draft:"
)

var requiredRecipeFields = []string{
	"name", "ingredients", "steps", "calories", "protein", "carbs", "fats", "prep_time_minutes", "meal_type",
}

// RecipePrompt is everything the generator knows about the requested meal.
type RecipePrompt struct {
	MealType             string
	AvailableTime        int
	AvailableIngredients string
	Description          string
	Goal                 string
	DietaryPreferences   string
	Allergies            string
	Dislikes             string
	MealNumber           *int
	TargetCalories       *float64
}

// BuildRecipePrompt validates a generation request against the caller's
// profile and sizes it. An explicit meal_percentage wins over the profile's
// distribution entry for meal_number.
func BuildRecipePrompt(profile *models.Profile, req *types.GenerateRecipeRequest) (*RecipePrompt, error) {
	if !models.ValidMealType(req.MealType) {
		return nil, ErrInvalidMealType
	}
	if req.AvailableTime < 1 {
		return nil, fmt.Errorf("%w: available_time must be at least 1 minute", ErrInvalidRecipe)
	}
	if req.MealNumber != nil && !nutrition.ValidMealsPerDay(*req.MealNumber) {
		return nil, ErrInvalidMealKey
	}
	if req.MealPercentage != nil && (*req.MealPercentage <= 0 || *req.MealPercentage > 100) {
		return nil, fmt.Errorf("%w: meal_percentage must be between 0 and 100", ErrInvalidRecipe)
	}

	prompt := &RecipePrompt{
		MealType:             req.MealType,
		AvailableTime:        req.AvailableTime,
		AvailableIngredients: strings.TrimSpace(req.AvailableIngredients),
		Description:          strings.TrimSpace(req.Description),
		Goal:                 profile.Goal,
		DietaryPreferences:   profile.DietaryPreferences,
		Allergies:            profile.Allergies,
		Dislikes:             profile.Dislikes,
		MealNumber:           req.MealNumber,
	}

	cfg := profile.MealConfig()
	switch {
	case req.MealPercentage != nil && cfg.DailyCalories != nil:
		kcal := nutrition.PercentageCalories(*cfg.DailyCalories, *req.MealPercentage)
		prompt.TargetCalories = &kcal
	case req.MealNumber != nil:
		if kcal, ok := nutrition.MealCalories(cfg, *req.MealNumber); ok {
			prompt.TargetCalories = &kcal
		}
	}
	return prompt, nil
}

// Text renders the user message sent to the model.
func (p *RecipePrompt) Text() string {
	var b strings.Builder
	b.WriteString("You are an expert nutrition assistant. Generate one recipe as a JSON object with exactly these fields:\n")
	b.WriteString("- name (string)\n")
	b.WriteString("- ingredients (string, comma separated list)\n")
	b.WriteString("- steps (string, numbered steps)\n")
	b.WriteString("- calories (integer)\n")
	b.WriteString("- protein, carbs, fats (numbers, grams)\n")
	b.WriteString("- prep_time_minutes (integer)\n")
	b.WriteString("- meal_type (one of breakfast, lunch, dinner, snack)\n\n")
	b.WriteString("User context:\n")

	if p.Goal != "" {
		fmt.Fprintf(&b, "- Goal: %s\n", p.Goal)
	}
	if p.DietaryPreferences != "" {
		fmt.Fprintf(&b, "- Dietary preferences: %s\n", p.DietaryPreferences)
	}
	if p.Allergies != "" {
		fmt.Fprintf(&b, "- Must avoid (allergies): %s\n", p.Allergies)
	}
	if p.Dislikes != "" {
		fmt.Fprintf(&b, "- Dislikes: %s\n", p.Dislikes)
	}
	fmt.Fprintf(&b, "- Meal type: %s\n", p.MealType)
	fmt.Fprintf(&b, "- Available time: %d minutes\n", p.AvailableTime)
	if p.TargetCalories != nil {
		fmt.Fprintf(&b, "- Target calories: about %d kcal\n", int(*p.TargetCalories+0.5))
	}
	if p.AvailableIngredients != "" {
		fmt.Fprintf(&b, "- Available ingredients: %s\n", p.AvailableIngredients)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "- Request: %s\n", p.Description)
	}
	b.WriteString("\nRespond ONLY with the JSON object. No additional text.")
	return b.String()
}

func correctionPrompt(response string) string {
	return fmt.Sprintf(`The following text contains a recipe but is not valid JSON. Extract the information and output ONLY a valid JSON object with these fields: %s.

Text: '%s'

Output only valid JSON, nothing else.`, strings.Join(requiredRecipeFields, ", "), response)
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completion request
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// LLMService talks to an OpenAI-compatible chat completions endpoint and
// caches generated drafts in Redis.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	redis  *redis.Client
}

var _ ILLMService = (*LLMService)(nil)

// NewLLMService creates a new LLMService instance. redisClient may be nil, in
// which case drafts are not cached.
func NewLLMService(cfg *config.Config, redisClient *redis.Client) *LLMService {
	return &LLMService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		client: &http.Client{Timeout: llmTimeout},
		redis:  redisClient,
	}
}

// GenerateRecipe asks the model for a recipe, retrying once with a
// correction prompt when the first answer is not usable JSON.
func (s *LLMService) GenerateRecipe(ctx context.Context, prompt *RecipePrompt) (*types.GeneratedRecipe, error) {
	content, err := s.complete(ctx, prompt.Text())
	if err != nil {
		return nil, err
	}

	parsed, ok := parseRecipeJSON(content)
	if !ok {
		log.Printf("[LLMService] Malformed recipe response, retrying with correction prompt")
		content, err = s.complete(ctx, correctionPrompt(content))
		if err != nil {
			return nil, err
		}
		parsed, ok = parseRecipeJSON(content)
		if !ok {
			return nil, ErrGenerationFailed
		}
	}

	recipe := &types.GeneratedRecipe{
		DraftID:         uuid.New().String(),
		Name:            parsed.Name,
		Ingredients:     string(parsed.Ingredients),
		Steps:           string(parsed.Steps),
		Calories:        int(parsed.Calories),
		Protein:         nutrition.Round1(parsed.Protein),
		Carbs:           nutrition.Round1(parsed.Carbs),
		Fats:            nutrition.Round1(parsed.Fats),
		PrepTimeMinutes: int(parsed.PrepTimeMinutes),
		MealType:        parsed.MealType,
		MealNumber:      prompt.MealNumber,
		TargetCalories:  prompt.TargetCalories,
		CreatedAt:       time.Now(),
	}
	if !models.ValidMealType(recipe.MealType) {
		recipe.MealType = prompt.MealType
	}

	if err := s.saveDraft(ctx, recipe); err != nil {
		log.Printf("[LLMService] Failed to cache draft %s: %v", recipe.DraftID, err)
	}
	return recipe, nil
}

// GetDraft returns a cached draft, or ErrNotFound once it has expired.
func (s *LLMService) GetDraft(ctx context.Context, draftID string) (*types.GeneratedRecipe, error) {
	if s.redis == nil {
		return nil, ErrNotFound
	}
	data, err := s.redis.Get(ctx, draftKeySpace+draftID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft types.GeneratedRecipe
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *LLMService) saveDraft(ctx context.Context, draft *types.GeneratedRecipe) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKeySpace+draft.DraftID, data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

func (s *LLMService) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := Request{
		Model:       s.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: 0.4,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM API call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[LLMService] API request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("LLM API call failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return result.Choices[0].Message.Content, nil
}

// flexibleText accepts either a string or a list of strings, joining the
// latter with newlines.
type flexibleText string

func (f *flexibleText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = flexibleText(str)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = flexibleText(strings.Join(list, "\n"))
		return nil
	}
	return fmt.Errorf("expected string or list of strings")
}

type llmRecipe struct {
	Name            string       `json:"name"`
	Ingredients     flexibleText `json:"ingredients"`
	Steps           flexibleText `json:"steps"`
	Calories        float64      `json:"calories"`
	Protein         float64      `json:"protein"`
	Carbs           float64      `json:"carbs"`
	Fats            float64      `json:"fats"`
	PrepTimeMinutes float64      `json:"prep_time_minutes"`
	MealType        string       `json:"meal_type"`
}

// parseRecipeJSON accepts a bare JSON object, optionally wrapped in a
// markdown code fence, carrying every required field.
func parseRecipeJSON(content string) (*llmRecipe, bool) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, false
	}
	for _, name := range requiredRecipeFields {
		if _, ok := fields[name]; !ok {
			return nil, false
		}
	}

	var recipe llmRecipe
	if err := json.Unmarshal([]byte(content), &recipe); err != nil {
		return nil, false
	}
	if strings.TrimSpace(recipe.Name) == "" {
		return nil, false
	}
	return &recipe, true
}
