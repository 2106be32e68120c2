package pinecone

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

// Snippet is one retrieved context fragment, most relevant first in a
// Retrieve result.
type Snippet struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Retriever is the context-retrieval collaborator: given a query vector it
// returns ranked supporting text snippets from the index.
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32, topK int) ([]Snippet, error)
	Upsert(ctx context.Context, vectors []Vector) error
}

type retriever struct {
	log       *logger.Logger
	pc        Client
	indexName string
	indexHost string
	namespace string
}

// NewRetriever resolves the index host from PINECONE_INDEX_HOST, falling
// back to a describe_index call (fine for local/dev; pin the host in
// production).
func NewRetriever(log *logger.Logger, pc Client) (Retriever, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if pc == nil {
		return nil, fmt.Errorf("pinecone client required")
	}

	indexName := strings.TrimSpace(os.Getenv("PINECONE_INDEX_NAME"))
	if indexName == "" {
		return nil, fmt.Errorf("missing PINECONE_INDEX_NAME")
	}

	host := strings.TrimSpace(os.Getenv("PINECONE_INDEX_HOST"))
	if host == "" {
		desc, err := pc.DescribeIndex(context.Background(), indexName)
		if err != nil {
			return nil, fmt.Errorf("pinecone describe_index failed: %w", err)
		}
		host = strings.TrimSpace(desc.Host)
		log.Warn("PINECONE_INDEX_HOST not set; resolved via describe_index",
			"index_name", indexName,
			"index_host", host,
		)
	}

	return &retriever{
		log:       log.With("service", "PineconeRetriever"),
		pc:        pc,
		indexName: indexName,
		indexHost: host,
		namespace: strings.TrimSpace(os.Getenv("PINECONE_NAMESPACE")),
	}, nil
}

// Retrieve queries the index and extracts the "text" metadata payload of
// each match. Matches without text metadata are skipped; an empty result
// is not an error.
func (r *retriever) Retrieve(ctx context.Context, vector []float32, topK int) ([]Snippet, error) {
	resp, err := r.pc.Query(ctx, r.indexHost, QueryRequest{
		Namespace:       r.namespace,
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Snippet, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		text, _ := m.Metadata["text"].(string)
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, Snippet{Text: text, Score: m.Score})
	}
	return out, nil
}

func (r *retriever) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	_, err := r.pc.UpsertVectors(ctx, r.indexHost, UpsertRequest{
		Namespace: r.namespace,
		Vectors:   vectors,
	})
	return err
}
