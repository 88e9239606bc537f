package valuation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/device-grader/internal/valuation"
)

type collector struct {
	mu      sync.Mutex
	results []valuation.Result
}

func (c *collector) deliver(r valuation.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collector) Results() []valuation.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]valuation.Result(nil), c.results...)
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	t.Parallel()

	src := &fakeSource{resp: &valuation.Response{Gate: "OK", Offer: 1}}
	d := valuation.NewDebouncer(src, 30*time.Millisecond, time.Second)
	defer d.Stop()

	var col collector
	var last valuation.Request
	for i := range 5 {
		req := testRequest()
		pct := float64(80 + i)
		req.BatteryHealthPct = &pct
		last = req
		d.Schedule(req, col.deliver)
	}

	require.Eventually(t, func() bool { return len(col.Results()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	calls := src.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, last.Key(), calls[0].Key())
	assert.Equal(t, last.Key(), col.Results()[0].Key)
	assert.Equal(t, last.Key(), d.Latest())
}

func TestDebouncer_SupersededInFlightIsCanceled(t *testing.T) {
	t.Parallel()

	src := &fakeSource{resp: &valuation.Response{Gate: "OK"}, delay: 200 * time.Millisecond}
	d := valuation.NewDebouncer(src, time.Millisecond, time.Second)
	defer d.Stop()

	var col collector
	first := testRequest()
	d.Schedule(first, col.deliver)
	require.Eventually(t, func() bool { return len(src.Calls()) == 1 }, time.Second, time.Millisecond)

	second := testRequest()
	second.Tenant = "other"
	d.Schedule(second, col.deliver)

	require.Eventually(t, func() bool { return len(col.Results()) == 2 }, 2*time.Second, 5*time.Millisecond)

	byKey := map[string]valuation.Result{}
	for _, r := range col.Results() {
		byKey[r.Key] = r
	}
	require.Error(t, byKey[first.Key()].Err, "superseded call is canceled")
	require.NoError(t, byKey[second.Key()].Err)
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	t.Parallel()

	src := &fakeSource{resp: &valuation.Response{}}
	d := valuation.NewDebouncer(src, 20*time.Millisecond, time.Second)

	var col collector
	d.Schedule(testRequest(), col.deliver)
	d.Stop()
	d.Schedule(testRequest(), col.deliver)

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, src.Calls())
	assert.Empty(t, col.Results())
}
