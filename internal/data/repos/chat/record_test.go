package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sahayhealth/sahay-backend/internal/data/db"
	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

func newTestRepo(t *testing.T) ConversationRecordRepo {
	t.Helper()
	log := logger.NewNop()
	svc, err := db.NewSQLiteService(log, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewConversationRecordRepo(svc.DB(), log)
}

func record(conversationID string, seq int, role, content string) *chat.ConversationRecord {
	return &chat.ConversationRecord{
		ConversationID: conversationID,
		Seq:            seq,
		Role:           role,
		Content:        content,
		RetrievalTrace: datatypes.JSON([]byte(`{}`)),
	}
}

func TestConversationRecordRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("create fills id and timestamp", func(t *testing.T) {
		repo := newTestRepo(t)
		row := record("alice", 0, chat.RoleUser, "hello")
		if err := repo.Create(ctx, []*chat.ConversationRecord{row}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if row.ID == uuid.Nil {
			t.Errorf("expected generated id")
		}
		if row.CreatedAt.IsZero() {
			t.Errorf("expected CreatedAt to be set")
		}
	})

	t.Run("create tolerates empty and nil rows", func(t *testing.T) {
		repo := newTestRepo(t)
		if err := repo.Create(ctx, nil); err != nil {
			t.Fatalf("Create(nil): %v", err)
		}
		if err := repo.Create(ctx, []*chat.ConversationRecord{nil}); err != nil {
			t.Fatalf("Create([nil]): %v", err)
		}
	})

	t.Run("list returns one conversation in seq order", func(t *testing.T) {
		repo := newTestRepo(t)
		rows := []*chat.ConversationRecord{
			record("alice", 2, chat.RoleUser, "and then?"),
			record("alice", 0, chat.RoleUser, "hello"),
			record("alice", 1, chat.RoleModel, "hi"),
			record("bob", 0, chat.RoleUser, "unrelated"),
		}
		if err := repo.Create(ctx, rows); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := repo.ListByConversation(ctx, "alice", 10)
		if err != nil {
			t.Fatalf("ListByConversation: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		for i, r := range got {
			if r.Seq != i {
				t.Errorf("row %d seq = %d, want %d", i, r.Seq, i)
			}
			if r.ConversationID != "alice" {
				t.Errorf("row %d conversation = %q", i, r.ConversationID)
			}
		}
		if got[1].Content != "hi" || got[1].Role != chat.RoleModel {
			t.Errorf("row 1 = %q/%q, want model reply", got[1].Role, got[1].Content)
		}
	})

	t.Run("limit caps result and zero means default", func(t *testing.T) {
		repo := newTestRepo(t)
		for i := 0; i < 5; i++ {
			role := chat.RoleUser
			if i%2 == 1 {
				role = chat.RoleModel
			}
			if err := repo.Create(ctx, []*chat.ConversationRecord{record("alice", i, role, "turn")}); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}

		got, err := repo.ListByConversation(ctx, "alice", 2)
		if err != nil {
			t.Fatalf("ListByConversation: %v", err)
		}
		if len(got) != 2 || got[0].Seq != 0 || got[1].Seq != 1 {
			t.Fatalf("limit 2 returned wrong rows: %+v", got)
		}

		all, err := repo.ListByConversation(ctx, "alice", 0)
		if err != nil {
			t.Fatalf("ListByConversation: %v", err)
		}
		if len(all) != 5 {
			t.Fatalf("default limit returned %d rows, want 5", len(all))
		}
	})

	t.Run("unknown conversation is empty", func(t *testing.T) {
		repo := newTestRepo(t)
		got, err := repo.ListByConversation(ctx, "nobody", 10)
		if err != nil {
			t.Fatalf("ListByConversation: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no rows, got %d", len(got))
		}
	})
}
