package handoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk_ResolvedAnswer(t *testing.T) {
	broker := NewBroker(func(req *Request) {
		go req.Resolve("Yes, authorized", true)
	})

	ans, err := broker.Ask(context.Background(), "Are you authorized to work?", KindPersonal)
	require.NoError(t, err)
	require.NotNil(t, ans)
	assert.Equal(t, "Yes, authorized", ans.Text)
	assert.True(t, ans.Remember)
}

func TestAsk_Dismissed(t *testing.T) {
	broker := NewBroker(func(req *Request) {
		go req.Dismiss()
	})

	ans, err := broker.Ask(context.Background(), "Expected salary?", KindPersonal)
	require.NoError(t, err)
	assert.Nil(t, ans)
}

func TestAsk_ContextCancelled(t *testing.T) {
	broker := NewBroker(func(*Request) {})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := broker.Ask(ctx, "Please solve the CAPTCHA", KindCaptcha)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolve_FirstCallWins(t *testing.T) {
	broker := NewBroker(func(req *Request) {
		go func() {
			req.Resolve("first", false)
			req.Resolve("second", true)
			req.Dismiss()
		}()
	})

	ans, err := broker.Ask(context.Background(), "Notice period?", KindPersonal)
	require.NoError(t, err)
	require.NotNil(t, ans)
	assert.Equal(t, "first", ans.Text)
	assert.False(t, ans.Remember)
}

func TestAsk_SingleOutstanding(t *testing.T) {
	release := make(chan struct{})
	broker := NewBroker(func(req *Request) {
		go func() {
			<-release
			req.Resolve("done", false)
		}()
	})

	firstDone := make(chan error, 1)
	go func() {
		_, err := broker.Ask(context.Background(), "first", KindPersonal)
		firstDone <- err
	}()

	// Wait for the first request to be outstanding, then a second Ask
	// must be rejected rather than queued.
	require.Eventually(t, func() bool {
		broker.mu.Lock()
		defer broker.mu.Unlock()
		return broker.busy
	}, time.Second, 5*time.Millisecond)

	_, err := broker.Ask(context.Background(), "second", KindPersonal)
	assert.Error(t, err)

	close(release)
	require.NoError(t, <-firstDone)
}
