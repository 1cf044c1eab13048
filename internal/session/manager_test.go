package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/parley/internal/conversation"
	"github.com/wolfman30/parley/internal/dialogue"
	"github.com/wolfman30/parley/pkg/logging"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T, opts ...Option) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	base := []Option{
		WithClock(clock.Now),
		WithLogger(logging.Discard()),
		WithSessionOptions(dialogue.WithSeed(7)),
	}
	return NewManager(append(base, opts...)...), clock
}

func TestManager_CreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)

	sess, err := m.Create("Influencer")
	require.NoError(t, err)
	assert.Equal(t, dialogue.InfluencerPersona, sess.Persona().Name)
	assert.NotEmpty(t, sess.ID())

	got, err := m.Get(sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, m.Len())
}

func TestManager_CreateDefaultsAndUnknownPersona(t *testing.T) {
	m, _ := newTestManager(t, WithDefaultPersona("procurement"))

	sess, err := m.Create("")
	require.NoError(t, err)
	assert.Equal(t, dialogue.ProcurementPersona, sess.Persona().Name)

	_, err = m.Create("pirate")
	assert.ErrorIs(t, err, dialogue.ErrUnknownPersona)
}

func TestManager_RegisteredPersonaOverridesBuiltin(t *testing.T) {
	custom, err := dialogue.LoadPersonaFile("../dialogue/testdata/bakery.yaml")
	require.NoError(t, err)
	m, _ := newTestManager(t, WithPersona(custom))

	assert.Contains(t, m.Personas(), custom.Name)
	assert.Contains(t, m.Personas(), dialogue.CustomerServicePersona)

	sess, err := m.Create(custom.Name)
	require.NoError(t, err)
	assert.Same(t, custom, sess.Persona())
}

func TestManager_GetUnknown(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Get("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.ErrorIs(t, m.Reset(context.Background(), "missing"), ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(context.Background(), "missing"), ErrSessionNotFound)
}

func TestManager_SweepRemovesIdleSessions(t *testing.T) {
	m, clock := newTestManager(t, WithIdleTTL(10*time.Minute))

	idle, err := m.Create(dialogue.CustomerServicePersona)
	require.NoError(t, err)
	clock.now = clock.now.Add(8 * time.Minute)
	active, err := m.Create(dialogue.CustomerServicePersona)
	require.NoError(t, err)

	clock.now = clock.now.Add(5 * time.Minute)
	assert.Equal(t, 1, m.Sweep(context.Background()))

	_, err = m.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(active.ID())
	assert.NoError(t, err)
}

func TestManager_ResetClearsSessionAndTranscript(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := conversation.NewTranscriptStore(client)

	m, _ := newTestManager(t,
		WithTranscripts(store),
		WithSessionOptions(dialogue.WithRecorder(store)),
	)
	ctx := context.Background()

	sess, err := m.Create(dialogue.CustomerServicePersona)
	require.NoError(t, err)
	_, err = sess.Process(ctx, "hello there")
	require.NoError(t, err)
	_, err = sess.Process(ctx, "I need help with my bill")
	require.NoError(t, err)

	turns, err := store.List(ctx, sess.ID(), 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hello there", turns[0].UserText)
	assert.Equal(t, "I need help with my bill", turns[1].UserText)

	require.NoError(t, m.Reset(ctx, sess.ID()))
	assert.Empty(t, sess.History())
	turns, err = store.List(ctx, sess.ID(), 0)
	require.NoError(t, err)
	assert.Empty(t, turns)

	require.NoError(t, m.Delete(ctx, sess.ID()))
	assert.Zero(t, m.Len())
}

func TestManager_SweepDropsTranscripts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := conversation.NewTranscriptStore(client)

	m, clock := newTestManager(t,
		WithIdleTTL(time.Minute),
		WithTranscripts(store),
		WithSessionOptions(dialogue.WithRecorder(store)),
	)
	ctx := context.Background()

	sess, err := m.Create(dialogue.CustomerServicePersona)
	require.NoError(t, err)
	_, err = sess.Process(ctx, "where is my order 12345")
	require.NoError(t, err)
	turns, err := store.List(ctx, sess.ID(), 0)
	require.NoError(t, err)
	require.Len(t, turns, 1)

	clock.now = clock.now.Add(2 * time.Minute)
	assert.Equal(t, 1, m.Sweep(ctx))

	turns, err = store.List(ctx, sess.ID(), 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestManager_SeededSessionsAreIndependent(t *testing.T) {
	// newTestManager seeds every session with the same value.
	reference, _ := newTestManager(t)
	ref, err := reference.Create(dialogue.CustomerServicePersona)
	require.NoError(t, err)
	var want []string
	for i := 0; i < 5; i++ {
		reply, err := ref.Process(context.Background(), "hello")
		require.NoError(t, err)
		want = append(want, reply.Text)
	}

	m, _ := newTestManager(t)
	const sessions = 8
	got := make([][]string, sessions)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		sess, err := m.Create(dialogue.CustomerServicePersona)
		require.NoError(t, err)
		wg.Add(1)
		go func(i int, sess *dialogue.Session) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				reply, err := sess.Process(context.Background(), "hello")
				if err != nil {
					return
				}
				got[i] = append(got[i], reply.Text)
			}
		}(i, sess)
	}
	wg.Wait()

	for i := range got {
		assert.Equal(t, want, got[i], "session %d", i)
	}
}
