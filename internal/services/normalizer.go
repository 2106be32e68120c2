package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
	"github.com/sahayhealth/sahay-backend/internal/history"
	apperrors "github.com/sahayhealth/sahay-backend/internal/pkg/errors"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

// Normalizer rewrites a context-dependent user utterance into a standalone
// question using the conversation's prior turns.
type Normalizer interface {
	Rewrite(ctx context.Context, conversationID, rawQuestion string) (string, error)
}

type normalizer struct {
	log       *logger.Logger
	store     *history.Store
	generator Generator
}

func NewNormalizer(log *logger.Logger, store *history.Store, generator Generator) Normalizer {
	return &normalizer{
		log:       log.With("service", "Normalizer"),
		store:     store,
		generator: generator,
	}
}

// Rewrite speculatively appends the raw question so the generator sees it
// as the latest turn, then removes it again on every exit path. The
// persisted history is identical before and after the call, success or
// failure. Generation failures propagate to the caller; there is no
// fallback to the raw question.
func (n *normalizer) Rewrite(ctx context.Context, conversationID, rawQuestion string) (string, error) {
	if strings.TrimSpace(rawQuestion) == "" {
		return "", fmt.Errorf("%w: question required", apperrors.ErrInvalidArgument)
	}

	n.store.Append(conversationID, chat.UserTurn(rawQuestion))
	defer n.store.RemoveLast(conversationID)

	turns := n.store.Get(conversationID)
	rewritten, err := n.generator.Generate(ctx, turns, rewriteInstruction)
	if err != nil {
		return "", fmt.Errorf("rewrite query: %w", err)
	}

	rewritten = strings.TrimSpace(rewritten)
	n.log.Debug("Rewrote query", "conversation_id", conversationID, "standalone", rewritten)
	return rewritten, nil
}
