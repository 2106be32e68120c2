// Command ingest populates the Pinecone index with a support-content
// corpus: it splits a plain-text file into paragraph chunks, embeds each
// chunk, and upserts the vectors with the chunk text as metadata so the
// chat pipeline can retrieve it.
//
// Usage: ingest -file corpus.txt [-batch 50]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/sahayhealth/sahay-backend/internal/clients/gemini"
	"github.com/sahayhealth/sahay-backend/internal/clients/pinecone"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

func main() {
	filePath := flag.String("file", "", "plain-text corpus file to ingest")
	batchSize := flag.Int("batch", 50, "vectors per upsert request")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *filePath == "" {
		log.Fatal("Missing -file argument")
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal("Could not read corpus file", "file", *filePath, "error", err)
	}
	chunks := splitChunks(string(raw))
	if len(chunks) == 0 {
		log.Fatal("Corpus file contains no usable text", "file", *filePath)
	}
	log.Info("Chunked corpus", "file", *filePath, "chunks", len(chunks))

	ctx := context.Background()
	geminiClient, err := gemini.New(ctx, log)
	if err != nil {
		log.Fatal("Could not init GeminiClient", "error", err)
	}
	pineconeClient, err := pinecone.New(log, pinecone.ConfigFromEnv())
	if err != nil {
		log.Fatal("Could not init PineconeClient", "error", err)
	}
	retriever, err := pinecone.NewRetriever(log, pineconeClient)
	if err != nil {
		log.Fatal("Could not init PineconeRetriever", "error", err)
	}

	batch := make([]pinecone.Vector, 0, *batchSize)
	total := 0
	for i, chunk := range chunks {
		vec, err := geminiClient.Embed(ctx, chunk)
		if err != nil {
			log.Fatal("Embedding failed", "chunk", i, "error", err)
		}
		batch = append(batch, pinecone.Vector{
			ID:       uuid.NewString(),
			Values:   vec,
			Metadata: map[string]any{"text": chunk},
		})
		if len(batch) >= *batchSize {
			if err := retriever.Upsert(ctx, batch); err != nil {
				log.Fatal("Upsert failed", "error", err)
			}
			total += len(batch)
			log.Info("Upserted batch", "total", total)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := retriever.Upsert(ctx, batch); err != nil {
			log.Fatal("Upsert failed", "error", err)
		}
		total += len(batch)
	}

	log.Info("Ingest complete", "vectors", total)
}

// splitChunks breaks the corpus on blank lines and drops fragments too
// short to be useful grounding material.
func splitChunks(text string) []string {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) < 40 {
			continue
		}
		out = append(out, p)
	}
	return out
}
