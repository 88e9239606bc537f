package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/device-grader/pkg/types"
)

func TestRegistry_AddGetDelete(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	s := newTestSession(t, newTestEngine(nil), phone(7))
	reg.Add(s)

	got, err := reg.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, reg.Delete(s.ID()))
	assert.Equal(t, 0, reg.Len())

	_, err = reg.Get(s.ID())
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, reg.Delete(s.ID()), ErrSessionNotFound)
}

func TestRegistry_ReapIdle(t *testing.T) {
	t.Parallel()

	old := time.Now().Add(-time.Hour)
	stale := newTestEngine(nil, WithNowFunc(func() time.Time { return old }))
	fresh := newTestEngine(nil)

	reg := NewRegistry()
	idle := newTestSession(t, stale, phone(1))
	active := newTestSession(t, fresh, phone(2))
	reg.Add(idle)
	reg.Add(active)

	assert.Equal(t, 1, reg.ReapIdle(10*time.Minute))
	assert.Equal(t, 1, reg.Len())

	_, err := reg.Get(idle.ID())
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = reg.Get(active.ID())
	require.NoError(t, err)
}

func TestRegistry_ClosedSessionIgnoresRemote(t *testing.T) {
	t.Parallel()

	src := &fakeSource{resp: remoteB(), delay: 50 * time.Millisecond}
	eng := newTestEngine(nil, WithValuation(src, "acme"))
	s, err := eng.NewSession(context.Background(), phone(7), domain.ChannelB2C)
	require.NoError(t, err)

	reg := NewRegistry()
	reg.Add(s)
	s.Update(pristine())
	require.Eventually(t, func() bool { return src.CallCount() == 1 }, waitFor, tick)

	reg.CloseAll()
	assert.Equal(t, 0, reg.Len())
	assert.Never(t, func() bool { return s.State() == StateResolvedRemote }, 100*time.Millisecond, tick)
}

func TestNewReaper_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	r, err := NewReaper(NewRegistry(), "@every 1m", 30*time.Minute, quietLogger())
	require.NoError(t, err)
	assert.Len(t, r.Entries(), 1)
}

func TestNewReaper_InvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := NewReaper(NewRegistry(), "every minute", time.Minute, quietLogger())
	require.Error(t, err)
}

func TestReaper_StartStop(t *testing.T) {
	t.Parallel()

	r, err := NewReaper(NewRegistry(), "@every 1h", time.Hour, quietLogger())
	require.NoError(t, err)

	r.Start()
	ctx := r.Stop()
	<-ctx.Done()
}

func TestReaper_RunReapsIdleSessions(t *testing.T) {
	t.Parallel()

	old := time.Now().Add(-time.Hour)
	eng := newTestEngine(nil, WithNowFunc(func() time.Time { return old }))

	reg := NewRegistry()
	reg.Add(newTestSession(t, eng, phone(1)))

	r, err := NewReaper(reg, "@every 1h", time.Minute, quietLogger())
	require.NoError(t, err)

	r.run()
	assert.Equal(t, 0, reg.Len())
}
