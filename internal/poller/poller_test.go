package poller

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault-systems/leads-backend/internal/logging"
	"github.com/jobvault-systems/leads-backend/internal/models"
	"github.com/jobvault-systems/leads-backend/internal/repository"
)

// recordingChannel captures every notified submission id.
type recordingChannel struct {
	mu  sync.Mutex
	ids []string
}

func (c *recordingChannel) Send(_ context.Context, sub *models.Submission) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, sub.ID)
	return nil
}

func (c *recordingChannel) Type() string { return "recording" }

func (c *recordingChannel) notified() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

func seedSubmission(t *testing.T, repo repository.Repository, email string) *models.Submission {
	t.Helper()
	sub := &models.Submission{
		Email:       email,
		Status:      models.StatusPending,
		Source:      models.SourceGetStarted,
		SubmittedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), sub))
	return sub
}

func newTestPoller(repo repository.Repository, seen SeenStore, ch *recordingChannel) *Poller {
	return New(repo, seen, ch, Config{Interval: time.Minute}, logging.New(slog.LevelError, "text"))
}

func TestPoll(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh seen-set seeds silently", func(t *testing.T) {
		repo := repository.NewInMemoryRepository()
		seedSubmission(t, repo, "old1@acme.com")
		seedSubmission(t, repo, "old2@acme.com")

		ch := &recordingChannel{}
		p := newTestPoller(repo, NewMemorySeenStore(), ch)

		require.NoError(t, p.Poll(ctx))
		assert.Empty(t, ch.notified(), "backlog must not be replayed on first start")
	})

	t.Run("new submission notifies exactly once", func(t *testing.T) {
		repo := repository.NewInMemoryRepository()
		seedSubmission(t, repo, "old@acme.com")

		ch := &recordingChannel{}
		p := newTestPoller(repo, NewMemorySeenStore(), ch)

		require.NoError(t, p.Poll(ctx)) // seed

		fresh := seedSubmission(t, repo, "new@acme.com")
		require.NoError(t, p.Poll(ctx))
		assert.Equal(t, []string{fresh.ID}, ch.notified())

		// Another cycle with no change stays quiet.
		require.NoError(t, p.Poll(ctx))
		assert.Equal(t, []string{fresh.ID}, ch.notified())
	})

	t.Run("delete plus insert between polls flags only the insert", func(t *testing.T) {
		repo := repository.NewInMemoryRepository()
		victim := seedSubmission(t, repo, "victim@acme.com")
		seedSubmission(t, repo, "stays@acme.com")

		ch := &recordingChannel{}
		p := newTestPoller(repo, NewMemorySeenStore(), ch)
		require.NoError(t, p.Poll(ctx)) // seed

		// Count stays at 2 across the cycle; only the id-set changes.
		require.NoError(t, repo.Delete(ctx, victim.ID))
		fresh := seedSubmission(t, repo, "fresh@acme.com")

		require.NoError(t, p.Poll(ctx))
		assert.Equal(t, []string{fresh.ID}, ch.notified())
	})

	t.Run("delete alone notifies nothing", func(t *testing.T) {
		repo := repository.NewInMemoryRepository()
		victim := seedSubmission(t, repo, "victim@acme.com")
		seedSubmission(t, repo, "stays@acme.com")

		ch := &recordingChannel{}
		p := newTestPoller(repo, NewMemorySeenStore(), ch)
		require.NoError(t, p.Poll(ctx))

		require.NoError(t, repo.Delete(ctx, victim.ID))
		require.NoError(t, p.Poll(ctx))
		assert.Empty(t, ch.notified())
	})
}

func TestPollerStartStop(t *testing.T) {
	repo := repository.NewInMemoryRepository()
	ch := &recordingChannel{}
	p := newTestPoller(repo, NewMemorySeenStore(), ch)

	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	assert.Error(t, p.Start(ctx), "second start must be rejected")

	p.Stop()
	p.Stop() // second stop is a no-op
}

func TestRedisSeenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisSeenStore(client, "")

	t.Run("starts empty", func(t *testing.T) {
		empty, err := store.Empty(ctx)
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("mark then seen", func(t *testing.T) {
		require.NoError(t, store.Mark(ctx, []string{"a", "b"}))

		seen, err := store.Seen(ctx, []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.True(t, seen["a"])
		assert.True(t, seen["b"])
		assert.False(t, seen["c"])

		empty, err := store.Empty(ctx)
		require.NoError(t, err)
		assert.False(t, empty)
	})

	t.Run("set survives a new store instance", func(t *testing.T) {
		again := NewRedisSeenStore(client, "")
		seen, err := again.Seen(ctx, []string{"a"})
		require.NoError(t, err)
		assert.True(t, seen["a"])
	})

	t.Run("empty id slice is a no-op", func(t *testing.T) {
		require.NoError(t, store.Mark(ctx, nil))
		seen, err := store.Seen(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, seen)
	})
}

func TestPollerWithRedisSeenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	repo := repository.NewInMemoryRepository()
	seedSubmission(t, repo, "old@acme.com")

	ch := &recordingChannel{}
	p := New(repo, NewRedisSeenStore(client, ""), ch, Config{}, logging.New(slog.LevelError, "text"))

	require.NoError(t, p.Poll(ctx)) // seed

	// A replacement poller sharing the same Redis set must not replay.
	ch2 := &recordingChannel{}
	p2 := New(repo, NewRedisSeenStore(client, ""), ch2, Config{}, logging.New(slog.LevelError, "text"))
	require.NoError(t, p2.Poll(ctx))
	assert.Empty(t, ch2.notified())

	fresh := seedSubmission(t, repo, "new@acme.com")
	require.NoError(t, p2.Poll(ctx))
	assert.Equal(t, []string{fresh.ID}, ch2.notified())
}
