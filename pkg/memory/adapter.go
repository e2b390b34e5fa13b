package memory

import (
	"context"
	"sync"

	"doc-chat-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// disabledMarker is cached for users whose session creation failed, so the
// backend is never retried within this process lifetime.
type disabledMarker struct{}

// Adapter is a concurrency-safe memoized session factory. Concurrent calls
// for the same unseen user share one creation attempt; distinct users never
// block each other.
type Adapter struct {
	store    Store
	logger   logger.ILogger
	sessions *cache.Cache

	mu       sync.Mutex
	inflight map[string]*creation
}

type creation struct {
	once sync.Once
	sess Session
}

func NewAdapter(store Store, log logger.ILogger) *Adapter {
	return &Adapter{
		store:    store,
		logger:   log,
		sessions: cache.New(cache.NoExpiration, 0),
		inflight: make(map[string]*creation),
	}
}

// GetOrCreate returns the user's memory session, creating it on first use.
// A nil return means memory is disabled for this user: either the backend is
// not configured, or a previous creation attempt failed and was cached.
func (a *Adapter) GetOrCreate(ctx context.Context, userId string) Session {
	// Fast path: hit the cache without touching the creation lock.
	if v, found := a.sessions.Get(userId); found {
		if sess, ok := v.(Session); ok {
			return sess
		}
		return nil
	}

	if a.store == nil {
		a.sessions.Set(userId, disabledMarker{}, cache.NoExpiration)
		return nil
	}

	return a.getOrCreateSlow(ctx, userId)
}

// getOrCreateSlow serializes first creation per user. The cache is re-checked
// under the lock: a caller that missed the fast path while another caller's
// creation completed (and its inflight entry was already removed) must join
// the finished result, not start a second attempt.
func (a *Adapter) getOrCreateSlow(ctx context.Context, userId string) Session {
	a.mu.Lock()
	c, ok := a.inflight[userId]
	if !ok {
		if v, found := a.sessions.Get(userId); found {
			a.mu.Unlock()
			if sess, ok := v.(Session); ok {
				return sess
			}
			return nil
		}
		c = &creation{}
		a.inflight[userId] = c
	}
	a.mu.Unlock()

	c.once.Do(func() {
		sess, err := a.store.CreateSession(ctx, userId)
		if err != nil {
			a.logger.Error("memory", "Failed to create memory session, disabling memory for user", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
			a.sessions.Set(userId, disabledMarker{}, cache.NoExpiration)
			return
		}
		a.logger.Info("memory", "Created memory session", map[string]interface{}{
			"user_id": userId,
		})
		c.sess = sess
		a.sessions.Set(userId, sess, cache.NoExpiration)
	})

	a.mu.Lock()
	delete(a.inflight, userId)
	a.mu.Unlock()

	return c.sess
}
