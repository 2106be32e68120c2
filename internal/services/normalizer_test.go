package services

import (
	"context"
	"testing"

	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
	"github.com/sahayhealth/sahay-backend/internal/history"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

func newTestHistory() *history.Store {
	return history.NewStore(logger.NewNop(), history.Config{})
}

func TestRewriteReturnsStandaloneQuestion(t *testing.T) {
	store := newTestHistory()
	defer store.Stop()
	store.Append("u1", chat.UserTurn("tell me about meditation"))
	store.Append("u1", chat.ModelTurn("meditation calms the mind"))

	gen := &fakeGenerator{reply: "What are the benefits of meditation?"}
	n := NewNormalizer(logger.NewNop(), store, gen)

	got, err := n.Rewrite(context.Background(), "u1", "what are its benefits?")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got != "What are the benefits of meditation?" {
		t.Fatalf("unexpected rewrite: %q", got)
	}

	// The generator must have seen the raw question as the latest turn.
	if len(gen.gotTurns) != 3 {
		t.Fatalf("generator saw %d turns, want 3", len(gen.gotTurns))
	}
	last := gen.gotTurns[len(gen.gotTurns)-1]
	if last.Role != chat.RoleUser || last.Text != "what are its benefits?" {
		t.Fatalf("generator saw wrong latest turn: %+v", last)
	}
	if gen.gotInstruction != rewriteInstruction {
		t.Fatal("generator did not receive the rewrite instruction")
	}
}

func TestRewriteIsHistoryNeutralOnSuccess(t *testing.T) {
	store := newTestHistory()
	defer store.Stop()
	store.Append("u1", chat.UserTurn("hi"))
	before := store.Len("u1")

	n := NewNormalizer(logger.NewNop(), store, &fakeGenerator{reply: "standalone"})
	if _, err := n.Rewrite(context.Background(), "u1", "follow-up?"); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got := store.Len("u1"); got != before {
		t.Fatalf("history length changed: before=%d after=%d", before, got)
	}
}

func TestRewriteIsHistoryNeutralOnFailure(t *testing.T) {
	store := newTestHistory()
	defer store.Stop()
	store.Append("u1", chat.UserTurn("hi"))
	before := store.Len("u1")

	n := NewNormalizer(logger.NewNop(), store, &fakeGenerator{err: errBoom})
	if _, err := n.Rewrite(context.Background(), "u1", "follow-up?"); err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := store.Len("u1"); got != before {
		t.Fatalf("history length changed on failure: before=%d after=%d", before, got)
	}
	// The speculative turn must be gone, not the pre-existing one.
	if store.Get("u1")[0].Text != "hi" {
		t.Fatal("rollback removed the wrong turn")
	}
}
