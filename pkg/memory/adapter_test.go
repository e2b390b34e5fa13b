package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"doc-chat-be/internal/pkg/logger"
	"doc-chat-be/pkg/llm"
)

type fakeSession struct {
	userId string
}

func (f *fakeSession) Retrieve(context.Context, string) (string, error) { return "", nil }
func (f *fakeSession) Add(context.Context, []llm.Message) error         { return nil }

type fakeStore struct {
	calls atomic.Int32
	err   error
}

func (f *fakeStore) CreateSession(_ context.Context, userId string) (Session, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &fakeSession{userId: userId}, nil
}

func TestGetOrCreateMemoizesPerUser(t *testing.T) {
	store := &fakeStore{}
	a := NewAdapter(store, logger.NewNopLogger())

	first := a.GetOrCreate(context.Background(), "alice")
	second := a.GetOrCreate(context.Background(), "alice")

	if first == nil || second == nil {
		t.Fatal("expected sessions for alice")
	}
	if first != second {
		t.Error("expected the same memoized session")
	}
	if store.calls.Load() != 1 {
		t.Errorf("CreateSession called %d times, want 1", store.calls.Load())
	}
}

func TestGetOrCreateDistinctUsers(t *testing.T) {
	store := &fakeStore{}
	a := NewAdapter(store, logger.NewNopLogger())

	alice := a.GetOrCreate(context.Background(), "alice")
	bob := a.GetOrCreate(context.Background(), "bob")

	if alice == bob {
		t.Error("distinct users must not share a session")
	}
	if store.calls.Load() != 2 {
		t.Errorf("CreateSession called %d times, want 2", store.calls.Load())
	}
}

func TestGetOrCreateNilStoreDisablesMemory(t *testing.T) {
	a := NewAdapter(nil, logger.NewNopLogger())

	if sess := a.GetOrCreate(context.Background(), "alice"); sess != nil {
		t.Error("expected nil session with no backend configured")
	}
}

func TestGetOrCreateCachesFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("api key rejected")}
	a := NewAdapter(store, logger.NewNopLogger())

	if sess := a.GetOrCreate(context.Background(), "alice"); sess != nil {
		t.Fatal("expected nil session on creation failure")
	}
	if sess := a.GetOrCreate(context.Background(), "alice"); sess != nil {
		t.Fatal("expected failure to stay cached")
	}

	if store.calls.Load() != 1 {
		t.Errorf("CreateSession retried after cached failure: %d calls", store.calls.Load())
	}
}

// A caller can read the cache before a concurrent creation finishes and only
// reach the locked section after that creation completed and removed its
// inflight entry. Calling the slow path directly after a finished cycle
// reproduces that interleaving deterministically.
func TestSlowPathJoinsCompletedCreation(t *testing.T) {
	store := &fakeStore{}
	a := NewAdapter(store, logger.NewNopLogger())

	first := a.GetOrCreate(context.Background(), "alice")
	late := a.getOrCreateSlow(context.Background(), "alice")

	if first == nil || late != first {
		t.Error("late caller must receive the already-created session")
	}
	if store.calls.Load() != 1 {
		t.Errorf("CreateSession called %d times, want 1", store.calls.Load())
	}
}

func TestSlowPathHonorsCachedFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("api key rejected")}
	a := NewAdapter(store, logger.NewNopLogger())

	if sess := a.GetOrCreate(context.Background(), "alice"); sess != nil {
		t.Fatal("expected nil session on creation failure")
	}
	if sess := a.getOrCreateSlow(context.Background(), "alice"); sess != nil {
		t.Fatal("late caller must see the cached failure, not retry")
	}
	if store.calls.Load() != 1 {
		t.Errorf("CreateSession retried after cached failure: %d calls", store.calls.Load())
	}
}

func TestGetOrCreateConcurrentSingleCreation(t *testing.T) {
	store := &fakeStore{}
	a := NewAdapter(store, logger.NewNopLogger())

	var wg sync.WaitGroup
	sessions := make([]Session, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = a.GetOrCreate(context.Background(), "alice")
		}(i)
	}
	wg.Wait()

	if store.calls.Load() != 1 {
		t.Errorf("CreateSession called %d times under contention, want 1", store.calls.Load())
	}
	for i, sess := range sessions {
		if sess == nil {
			t.Fatalf("goroutine %d got nil session", i)
		}
		if sess != sessions[0] {
			t.Fatalf("goroutine %d got a different session", i)
		}
	}
}
