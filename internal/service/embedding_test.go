package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthplan/backend/internal/service"
)

func TestGenerateEmbedding(t *testing.T) {
	v := service.GenerateEmbedding("Pasta")
	assert.Equal(t, []float32{5, 2, 3}, v.Slice())
}

func TestGenerateEmbeddingIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, service.GenerateEmbedding("TACOS").Slice(), service.GenerateEmbedding("tacos").Slice())
}

func TestGenerateEmbeddingEmpty(t *testing.T) {
	assert.Equal(t, []float32{0, 0, 0}, service.GenerateEmbedding("").Slice())
}
