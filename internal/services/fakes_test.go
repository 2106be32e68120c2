package services

import (
	"context"
	"errors"

	"github.com/sahayhealth/sahay-backend/internal/clients/pinecone"
	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
)

var errBoom = errors.New("boom")

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

type fakeRetriever struct {
	snippets []pinecone.Snippet
	err      error
	gotTopK  int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ []float32, topK int) ([]pinecone.Snippet, error) {
	f.gotTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.snippets, nil
}

type fakeGenerator struct {
	reply string
	err   error

	gotTurns       []chat.Turn
	gotInstruction string
	calls          int
}

func (f *fakeGenerator) Generate(_ context.Context, turns []chat.Turn, instruction string) (string, error) {
	f.calls++
	f.gotTurns = append([]chat.Turn(nil), turns...)
	f.gotInstruction = instruction
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
