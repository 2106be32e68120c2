package services

import (
	"context"

	"github.com/sahayhealth/sahay-backend/internal/clients/pinecone"
	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
)

// Narrow collaborator contracts the pipeline depends on. The Gemini client
// satisfies Embedder and Generator; the Pinecone retriever satisfies
// ContextRetriever. Tests substitute fakes.

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Generator interface {
	Generate(ctx context.Context, turns []chat.Turn, systemInstruction string) (string, error)
}

type ContextRetriever interface {
	Retrieve(ctx context.Context, vector []float32, topK int) ([]pinecone.Snippet, error)
}
