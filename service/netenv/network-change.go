package netenv

import (
	"context"
	"errors"
	"time"

	"github.com/safing/sysresolvers/base/log"
)

// DefaultMonitorInterval is the interval used by Monitor if none is given.
const DefaultMonitorInterval = 5 * time.Second

// ChangeFunc is called by Monitor with the new snapshot, or with the error
// of a failed query.
type ChangeFunc func(snapshot *ResolverSnapshot, err error)

// Monitor queries the resolvers every interval and calls fn with the first
// result and then whenever the resolvers change. A failing query is reported
// once until a query succeeds again. Monitor blocks until ctx is canceled.
func (d *Discovery) Monitor(ctx context.Context, interval time.Duration, fn ChangeFunc) error {
	if fn == nil {
		return errors.New("no change function supplied")
	}
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		lastChecksum string
		lastFailed   bool
		reported     bool
	)
	for {
		snapshot, err := d.Snapshot()
		switch {
		case err != nil:
			if !lastFailed {
				log.Warningf("netenv: failed to query resolvers: %s", err)
				fn(nil, err)
			}
			lastFailed = true
		case !reported || lastFailed || snapshot.Checksum() != lastChecksum:
			if reported && !lastFailed {
				log.Infof("netenv: resolvers changed to %v", snapshot.Addresses())
			}
			lastChecksum = snapshot.Checksum()
			lastFailed = false
			reported = true
			fn(snapshot, nil)
		}

		// wait for next check
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
