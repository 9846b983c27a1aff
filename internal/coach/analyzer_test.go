package coach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/ontarget/internal/model"
)

// startAsync runs the request on its own goroutine the way a tea.Cmd does.
func startAsync(t *testing.T, a *Analyzer, s model.Session) <-chan Result {
	t.Helper()
	run, ok := a.Start(context.Background(), s, model.UserSettings{})
	require.True(t, ok)
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		done <- run()
	}()
	return done
}

func TestAnalyzerStoresOneFeedback(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := NewAnalyzer(New(&stubGenerator{text: "Nice finishing."}))
	s := testSession()
	a.Activate(s.ID)

	done := startAsync(t, a, s)
	res := <-done
	assert.Equal(t, "Nice finishing.", res.Text)
	require.True(t, a.Deliver(res))

	text, ok := a.Feedback()
	require.True(t, ok)
	assert.Equal(t, "Nice finishing.", text)
	assert.False(t, a.Analyzing())

	_, ok = a.Start(context.Background(), s, model.UserSettings{})
	assert.False(t, ok, "feedback already stored for this activation")
}

func TestAnalyzerRejectsConcurrentRequest(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := &stubGenerator{text: "ok", block: make(chan struct{})}
	a := NewAnalyzer(New(gen))
	s := testSession()
	a.Activate(s.ID)

	done := startAsync(t, a, s)
	assert.True(t, a.Analyzing())

	_, ok := a.Start(context.Background(), s, model.UserSettings{})
	assert.False(t, ok)

	close(gen.block)
	require.True(t, a.Deliver(<-done))
	assert.False(t, a.Analyzing())
}

func TestAnalyzerDropsStaleResult(t *testing.T) {
	a := NewAnalyzer(New(&stubGenerator{text: "for s1"}))
	s := testSession()
	a.Activate(s.ID)

	run, ok := a.Start(context.Background(), s, model.UserSettings{})
	require.True(t, ok)

	other := model.Session{ID: "s2"}
	a.Activate(other.ID)
	assert.False(t, a.Analyzing())

	res := run()
	assert.False(t, a.Deliver(res))
	_, ok = a.Feedback()
	assert.False(t, ok)
}

func TestAnalyzerDropsResultAfterReactivation(t *testing.T) {
	a := NewAnalyzer(New(&stubGenerator{text: "late"}))
	s := testSession()
	a.Activate(s.ID)
	run, ok := a.Start(context.Background(), s, model.UserSettings{})
	require.True(t, ok)

	// Leaving and reopening the same session is a new activation.
	a.Deactivate()
	a.Activate(s.ID)

	assert.False(t, a.Deliver(run()))
	_, ok = a.Feedback()
	assert.False(t, ok)
}

func TestAnalyzerRequiresActiveSession(t *testing.T) {
	a := NewAnalyzer(New(nil))
	_, ok := a.Start(context.Background(), testSession(), model.UserSettings{})
	assert.False(t, ok)
}
