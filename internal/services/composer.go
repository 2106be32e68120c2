package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/sahayhealth/sahay-backend/internal/catalog"
	"github.com/sahayhealth/sahay-backend/internal/clients/pinecone"
	chatrepo "github.com/sahayhealth/sahay-backend/internal/data/repos/chat"
	chatdomain "github.com/sahayhealth/sahay-backend/internal/domain/chat"
	"github.com/sahayhealth/sahay-backend/internal/history"
	apperrors "github.com/sahayhealth/sahay-backend/internal/pkg/errors"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

// Composer orchestrates one reply: optional query rewriting, context
// retrieval, recommendation selection, policy-scoped generation, and
// history bookkeeping.
type Composer interface {
	Answer(ctx context.Context, conversationID, question string) (string, error)
}

type ComposerConfig struct {
	// TopK is the number of indexed items fetched per query.
	TopK int
	// RewriteEnabled turns the standalone-question rewrite on for
	// conversations that already have turns.
	RewriteEnabled bool
}

type composer struct {
	log        *logger.Logger
	cfg        ComposerConfig
	store      *history.Store
	embedder   Embedder
	retriever  ContextRetriever
	generator  Generator
	normalizer Normalizer
	catalog    *catalog.Catalog
	selector   *catalog.Selector
	validator  *PolicyValidator

	// archive is optional; nil disables transcript archiving.
	archive chatrepo.ConversationRecordRepo
}

func NewComposer(
	log *logger.Logger,
	cfg ComposerConfig,
	store *history.Store,
	embedder Embedder,
	retriever ContextRetriever,
	generator Generator,
	normalizer Normalizer,
	cat *catalog.Catalog,
	selector *catalog.Selector,
	validator *PolicyValidator,
	archive chatrepo.ConversationRecordRepo,
) Composer {
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	return &composer{
		log:        log.With("service", "Composer"),
		cfg:        cfg,
		store:      store,
		embedder:   embedder,
		retriever:  retriever,
		generator:  generator,
		normalizer: normalizer,
		catalog:    cat,
		selector:   selector,
		validator:  validator,
		archive:    archive,
	}
}

// Answer runs the pipeline for one inbound message. On success the
// conversation gains exactly two turns (user + model); when generation
// fails the user turn is kept and the error surfaces to the caller, so
// the question is remembered even though answering failed.
func (s *composer) Answer(ctx context.Context, conversationID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: message required", apperrors.ErrInvalidArgument)
	}

	// The standalone query feeds retrieval and selection; the raw question
	// is what history remembers.
	query := question
	if s.cfg.RewriteEnabled && s.store.Len(conversationID) > 0 {
		rewritten, err := s.normalizer.Rewrite(ctx, conversationID, question)
		if err != nil {
			return "", err
		}
		query = rewritten
	}

	var (
		snippets []pinecone.Snippet
		picks    []catalog.ResourceEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vector, err := s.embedder.Embed(gctx, query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		snippets, err = s.retriever.Retrieve(gctx, vector, s.cfg.TopK)
		if err != nil {
			return fmt.Errorf("retrieve context: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		picks = s.selector.Select(query)
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	contextBlock := joinSnippets(snippets)

	s.store.Append(conversationID, chatdomain.UserTurn(question))
	turns := s.store.Get(conversationID)

	instruction := buildSystemInstruction(contextBlock, s.catalog.Entries(), picks)
	reply, err := s.generator.Generate(ctx, turns, instruction)
	if err != nil {
		s.log.Error("Generation failed, keeping user turn only",
			"conversation_id", conversationID, "error", err)
		return "", fmt.Errorf("generate reply: %w", err)
	}

	s.store.Append(conversationID, chatdomain.ModelTurn(reply))

	s.validator.Check(conversationID, question, reply)
	s.archiveTurns(ctx, conversationID, len(turns)-1, question, reply, snippets)

	s.log.Debug("Answered",
		"conversation_id", conversationID,
		"snippets", len(snippets),
		"recommendations", len(picks),
	)
	return reply, nil
}

func joinSnippets(snippets []pinecone.Snippet) string {
	texts := make([]string, 0, len(snippets))
	for _, sn := range snippets {
		texts = append(texts, sn.Text)
	}
	return strings.Join(texts, contextDelimiter)
}

// archiveTurns writes the committed pair to the transcript archive.
// Best-effort: failures are logged and never fail the request.
func (s *composer) archiveTurns(ctx context.Context, conversationID string, userSeq int, question, reply string, snippets []pinecone.Snippet) {
	if s.archive == nil {
		return
	}

	trace := datatypes.JSON([]byte(`{}`))
	if raw, err := json.Marshal(map[string]any{"snippets": snippets}); err == nil {
		trace = datatypes.JSON(raw)
	}

	rows := []*chatdomain.ConversationRecord{
		{
			ConversationID: conversationID,
			Seq:            userSeq,
			Role:           chatdomain.RoleUser,
			Content:        question,
			RetrievalTrace: datatypes.JSON([]byte(`{}`)),
		},
		{
			ConversationID: conversationID,
			Seq:            userSeq + 1,
			Role:           chatdomain.RoleModel,
			Content:        reply,
			RetrievalTrace: trace,
		},
	}
	if err := s.archive.Create(ctx, rows); err != nil {
		s.log.Warn("Transcript archive write failed",
			"conversation_id", conversationID, "error", err)
	}
}
