package pubfront

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = 2 * time.Minute

// startScheduler re-enumerates posts on RefreshSchedule so pages for new
// posts are generated without waiting for a first visitor. The returned
// func stops the scheduler and waits for a running refresh.
func (a *App) startScheduler() (func(), error) {
	spec := a.Config.RefreshSchedule
	if spec == "off" {
		return func() {}, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, a.scheduledRefresh); err != nil {
		return nil, fmt.Errorf("pubfront: bad refresh schedule %q: %w", spec, err)
	}
	c.Start()
	a.Echo.Logger.Infof("refreshing post paths %s", spec)
	return func() {
		<-c.Stop().Done()
	}, nil
}

func (a *App) scheduledRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	n, err := a.RefreshPaths(ctx)
	if err != nil {
		a.Echo.Logger.Errorf("scheduled refresh: %v", err)
	}
	if n > 0 {
		a.Echo.Logger.Infof("scheduled refresh generated %d new pages", n)
	}
}
