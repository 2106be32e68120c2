package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConversationRecord archives one committed turn. The in-memory history
// store stays authoritative for prompting; records exist only as a durable
// transcript and are never read back into the pipeline.
type ConversationRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"type:text;not null;index:idx_conversation_record_conv_seq,priority:1" json:"conversation_id"`
	Seq            int       `gorm:"not null;index:idx_conversation_record_conv_seq,priority:2" json:"seq"`

	Role    string `gorm:"type:text;not null" json:"role"`
	Content string `gorm:"type:text;not null;default:''" json:"content"`

	// RetrievalTrace keeps the context snippets that grounded an assistant
	// turn. Empty object for user turns.
	RetrievalTrace datatypes.JSON `gorm:"not null;default:'{}'" json:"retrieval_trace"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ConversationRecord) TableName() string { return "conversation_record" }
