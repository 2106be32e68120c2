package history

import (
	"sync"
	"time"

	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

// Store holds per-conversation message sequences in memory, keyed by an
// opaque conversation identifier. It is the sole owner of conversation
// state: the composer and normalizer mutate histories only through Append
// and RemoveLast.
//
// Appends for one identifier are serialized by a per-conversation mutex;
// operations on different identifiers never contend. Conversations idle
// longer than the configured TTL are evicted by a background sweeper, and
// a capacity bound evicts the least recently used conversation when
// exceeded.
type Store struct {
	log *logger.Logger

	mu            sync.RWMutex
	conversations map[string]*conversation

	ttl      time.Duration
	maxConvs int

	stopOnce sync.Once
	stop     chan struct{}
}

type conversation struct {
	mu         sync.Mutex
	turns      []chat.Turn
	lastAccess time.Time

	// evicted is set under mu when the conversation is removed from the
	// map, so a caller holding a stale pointer re-resolves instead of
	// writing into an orphaned struct.
	evicted bool
}

type Config struct {
	// TTL is the idle lifetime of a conversation. Zero disables the sweeper.
	TTL time.Duration
	// MaxConversations caps the number of live conversations. Zero means
	// unbounded.
	MaxConversations int
	// SweepInterval overrides how often the sweeper runs. Defaults to a
	// tenth of the TTL, clamped to [1m, 10m].
	SweepInterval time.Duration
}

func NewStore(log *logger.Logger, cfg Config) *Store {
	s := &Store{
		log:           log.With("service", "HistoryStore"),
		conversations: make(map[string]*conversation),
		ttl:           cfg.TTL,
		maxConvs:      cfg.MaxConversations,
		stop:          make(chan struct{}),
	}
	if cfg.TTL > 0 {
		interval := cfg.SweepInterval
		if interval <= 0 {
			interval = cfg.TTL / 10
			if interval < time.Minute {
				interval = time.Minute
			}
			if interval > 10*time.Minute {
				interval = 10 * time.Minute
			}
		}
		go s.sweepLoop(interval)
	}
	return s
}

// Get returns a copy of the conversation's turns, creating an empty
// conversation if the identifier is new. Idempotent.
func (s *Store) Get(conversationID string) []chat.Turn {
	var out []chat.Turn
	s.withConversation(conversationID, func(c *conversation) {
		out = make([]chat.Turn, len(c.turns))
		copy(out, c.turns)
	})
	return out
}

// Append adds a turn to the conversation's history.
func (s *Store) Append(conversationID string, turn chat.Turn) {
	s.withConversation(conversationID, func(c *conversation) {
		c.turns = append(c.turns, turn)
	})
}

// RemoveLast undoes a speculative append. Removing from an empty
// conversation is a no-op.
func (s *Store) RemoveLast(conversationID string) {
	s.withConversation(conversationID, func(c *conversation) {
		if n := len(c.turns); n > 0 {
			c.turns = c.turns[:n-1]
		}
	})
}

// Len reports the number of turns in the conversation without creating it.
func (s *Store) Len(conversationID string) int {
	s.mu.RLock()
	c, ok := s.conversations[conversationID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.evicted {
		return 0
	}
	return len(c.turns)
}

// withConversation runs fn with the conversation's lock held, touching
// lastAccess. If eviction removed the conversation between lookup and
// lock, the lookup is retried so fn always runs against the live entry.
func (s *Store) withConversation(conversationID string, fn func(*conversation)) {
	for {
		c := s.conversation(conversationID)
		c.mu.Lock()
		if c.evicted {
			c.mu.Unlock()
			continue
		}
		c.lastAccess = time.Now()
		fn(c)
		c.mu.Unlock()
		return
	}
}

// Stop terminates the background sweeper. Safe to call more than once.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) conversation(id string) *conversation {
	s.mu.RLock()
	c, ok := s.conversations[id]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.conversations[id]; ok {
		return c
	}
	if s.maxConvs > 0 && len(s.conversations) >= s.maxConvs {
		s.evictOldestLocked()
	}
	c = &conversation{lastAccess: time.Now()}
	s.conversations[id] = c
	return c
}

// evictOldestLocked drops the least recently used conversation. Caller
// holds s.mu.
func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest *conversation
	var oldestAt time.Time
	for id, c := range s.conversations {
		c.mu.Lock()
		at := c.lastAccess
		c.mu.Unlock()
		if oldestID == "" || at.Before(oldestAt) {
			oldestID = id
			oldest = c
			oldestAt = at
		}
	}
	if oldestID != "" {
		oldest.mu.Lock()
		oldest.evicted = true
		oldest.mu.Unlock()
		delete(s.conversations, oldestID)
		s.log.Warn("History store at capacity, evicted least recently used conversation",
			"conversation_id", oldestID, "last_access", oldestAt)
	}
}

func (s *Store) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, c := range s.conversations {
		c.mu.Lock()
		expired := now.Sub(c.lastAccess) > s.ttl
		if expired {
			c.evicted = true
		}
		c.mu.Unlock()
		if expired {
			delete(s.conversations, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Info("Evicted idle conversations", "count", evicted, "remaining", len(s.conversations))
	}
}
