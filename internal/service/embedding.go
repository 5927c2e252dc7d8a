package service

import (
	"math"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// EmbeddingServiceInterface turns recipe text into a vector for similarity
// search.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
}

// EmbeddingService is a deterministic three-dimensional text fingerprint:
// normalized length, vowel and consonant counts. It needs no external model
// and matches the vector(3) column.
type EmbeddingService struct{}

func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{}
}

func (s *EmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	text = strings.ToLower(text)
	var vowels, consonants float64
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	length := float64(len(text))

	norm := math.Sqrt(length*length + vowels*vowels + consonants*consonants)
	if norm == 0 {
		return pgvector.NewVector([]float32{0, 0, 0}), nil
	}
	return pgvector.NewVector([]float32{
		float32(length / norm),
		float32(vowels / norm),
		float32(consonants / norm),
	}), nil
}

// recipeText is what a recipe is embedded from.
func recipeText(r *models.Recipe) string {
	return strings.Join([]string{r.Name, r.MealType, r.Ingredients}, "\n")
}
