package pubfront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSchedulerOff(t *testing.T) {
	a := newTestApp(t, newFakeStore(helloWorld()), nil)

	stop, err := a.startScheduler()
	require.NoError(t, err)
	stop()
}

func TestStartSchedulerBadSpec(t *testing.T) {
	a := newTestApp(t, newFakeStore(helloWorld()), func(cfg *SiteConfig) { cfg.RefreshSchedule = "every tuesday" })

	_, err := a.startScheduler()
	assert.ErrorContains(t, err, "bad refresh schedule")
}

func TestScheduledRefreshGeneratesNewPosts(t *testing.T) {
	store := newFakeStore(helloWorld())
	a := newTestApp(t, store, func(cfg *SiteConfig) { cfg.RefreshSchedule = "@every 1h" })

	stop, err := a.startScheduler()
	require.NoError(t, err)
	defer stop()

	assert.False(t, a.Pages.Has("hello-world"))
	a.scheduledRefresh()
	assert.True(t, a.Pages.Has("hello-world"))
}
