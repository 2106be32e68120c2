package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

type ConversationRecordRepo interface {
	Create(ctx context.Context, rows []*chat.ConversationRecord) error
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]*chat.ConversationRecord, error)
}

type conversationRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRecordRepo(db *gorm.DB, log *logger.Logger) ConversationRecordRepo {
	return &conversationRecordRepo{
		db:  db,
		log: log.With("repo", "ConversationRecordRepo"),
	}
}

func (r *conversationRecordRepo) Create(ctx context.Context, rows []*chat.ConversationRecord) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	filtered := make([]*chat.ConversationRecord, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		filtered = append(filtered, row)
	}
	if len(filtered) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(filtered).Error
}

func (r *conversationRecordRepo) ListByConversation(ctx context.Context, conversationID string, limit int) ([]*chat.ConversationRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []*chat.ConversationRecord
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
