package seed

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"go-fairplay/internal/http-server/model"
	"go-fairplay/internal/lib/fair"
	"go-fairplay/internal/repository"
)

// memStore mimics the MySQL repository's conflict contract: one active pair
// per user, duplicate inserts reported as InsertConflict.
type memStore struct {
	mu      sync.Mutex
	active  map[int64]*model.SeedPair
	inserts int
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{active: make(map[int64]*model.SeedPair)}
}

func (s *memStore) FindActive(userID int64) (*model.SeedPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair, ok := s.active[userID]
	if !ok {
		return nil, nil
	}

	copied := *pair

	return &copied, nil
}

func (s *memStore) InsertIfAbsent(pair *model.SeedPair) (repository.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[pair.UserID]; ok {
		return repository.InsertConflict, nil
	}

	s.nextID++
	pair.ID = s.nextID
	s.inserts++

	copied := *pair
	s.active[pair.UserID] = &copied

	return repository.InsertCreated, nil
}

func (s *memStore) IncrementNonce(userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := s.active[userID]
	pair.Nonce++

	return pair.Nonce, nil
}

func (s *memStore) Rotate(userID int64, revealedAt time.Time, promoted *model.SeedPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	promoted.ID = s.nextID

	copied := *promoted
	s.active[userID] = &copied

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, nil))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestCreateIfAbsentFirstUse(t *testing.T) {
	store := newMemStore()
	manager := NewManager(store, testLogger())

	pair, err := manager.CreateIfAbsent(1)
	require.NoError(t, err)
	require.NotNil(t, pair)
	require.True(t, pair.IsActive)
	require.EqualValues(t, 0, pair.Nonce)
	require.Len(t, pair.ServerSeed, seedLength)
	require.Equal(t, fair.CommitmentHash(pair.ServerSeed), pair.ServerSeedHash)
	require.Equal(t, fair.CommitmentHash(pair.NextServerSeed), pair.NextServerSeedHash)
	require.NotEqual(t, pair.ServerSeed, pair.NextServerSeed)
	require.NotEmpty(t, pair.ClientSeed)
}

func TestCreateIfAbsentReturnsExisting(t *testing.T) {
	store := newMemStore()
	manager := NewManager(store, testLogger())

	first, err := manager.CreateIfAbsent(1)
	require.NoError(t, err)

	second, err := manager.CreateIfAbsent(1)
	require.NoError(t, err)

	require.Equal(t, first.ServerSeedHash, second.ServerSeedHash)
	require.Equal(t, 1, store.inserts)
}

func TestCreateIfAbsentConcurrentFirstUse(t *testing.T) {
	const workers = 32

	store := newMemStore()
	manager := NewManager(store, testLogger())

	var wg sync.WaitGroup

	hashes := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		i := i

		wg.Add(1)
		go func() {
			defer wg.Done()

			pair, err := manager.CreateIfAbsent(7)
			if err != nil {
				errs[i] = err

				return
			}

			hashes[i] = pair.ServerSeedHash
		}()
	}

	wg.Wait()

	// exactly one row persisted; every caller sees the winner's pair
	require.Equal(t, 1, store.inserts)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, hashes[0], hashes[i])
	}
}

// brokenStore reports a conflict on every insert but never exposes a pair,
// exercising the single-retry limit.
type brokenStore struct {
	memStore
}

func (s *brokenStore) FindActive(int64) (*model.SeedPair, error) { return nil, nil }

func (s *brokenStore) InsertIfAbsent(*model.SeedPair) (repository.InsertResult, error) {
	return repository.InsertConflict, nil
}

func TestCreateIfAbsentRetryExhausted(t *testing.T) {
	manager := NewManager(&brokenStore{}, testLogger())

	_, err := manager.CreateIfAbsent(1)
	require.ErrorIs(t, err, ErrSeedPairCreationFailed)
}

func TestNextNonceSequential(t *testing.T) {
	store := newMemStore()
	manager := NewManager(store, testLogger())

	_, err := manager.CreateIfAbsent(1)
	require.NoError(t, err)

	for want := int64(1); want <= 5; want++ {
		nonce, err := manager.NextNonce(1)
		require.NoError(t, err)
		require.Equal(t, want, nonce)
	}
}

func TestNextNonceConcurrentDistinct(t *testing.T) {
	const workers = 100

	store := newMemStore()
	manager := NewManager(store, testLogger())

	_, err := manager.CreateIfAbsent(1)
	require.NoError(t, err)

	var wg sync.WaitGroup

	nonces := make([]int64, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		i := i

		wg.Add(1)
		go func() {
			defer wg.Done()

			nonces[i], errs[i] = manager.NextNonce(1)
		}()
	}

	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// every value 1..workers allocated exactly once, none skipped
	seen := make(map[int64]struct{}, workers)
	for _, nonce := range nonces {
		_, dup := seen[nonce]
		require.False(t, dup, "nonce %d allocated twice", nonce)
		require.GreaterOrEqual(t, nonce, int64(1))
		require.LessOrEqual(t, nonce, int64(workers))
		seen[nonce] = struct{}{}
	}
	require.Len(t, seen, workers)
}

func TestRotatePromotesCommittedSuccessor(t *testing.T) {
	store := newMemStore()
	manager := NewManager(store, testLogger())

	original, err := manager.CreateIfAbsent(1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = manager.NextNonce(1)
		require.NoError(t, err)
	}

	revealed, promoted, err := manager.Rotate(1, "")
	require.NoError(t, err)

	// the revealed seed is the one that was committed before play
	require.Equal(t, original.ServerSeed, revealed.ServerSeed)
	require.Equal(t, original.ServerSeedHash, revealed.ServerSeedHash)
	require.False(t, revealed.IsActive)
	require.NotNil(t, revealed.RevealedAt)

	// the successor was pre-committed: its hash was public before rotation
	require.Equal(t, original.NextServerSeed, promoted.ServerSeed)
	require.Equal(t, original.NextServerSeedHash, promoted.ServerSeedHash)
	require.True(t, promoted.IsActive)
	require.EqualValues(t, 0, promoted.Nonce)
	require.Equal(t, original.ClientSeed, promoted.ClientSeed)
	require.NotEqual(t, promoted.ServerSeed, promoted.NextServerSeed)

	// nonce allocation restarts on the new pair
	nonce, err := manager.NextNonce(1)
	require.NoError(t, err)
	require.EqualValues(t, 1, nonce)
}

func TestRotateWithNewClientSeed(t *testing.T) {
	store := newMemStore()
	manager := NewManager(store, testLogger())

	_, err := manager.CreateIfAbsent(1)
	require.NoError(t, err)

	_, promoted, err := manager.Rotate(1, "my-lucky-seed")
	require.NoError(t, err)
	require.Equal(t, "my-lucky-seed", promoted.ClientSeed)
}
