package netenv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSource returns the configured results one after another and
// repeats the last one.
type sequenceSource struct {
	lock    sync.Mutex
	results [][]string
	calls   int
}

func (ss *sequenceSource) Name() string { return "sequence" }

func (ss *sequenceSource) Query() ([]InterfaceResolverSet, error) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	i := ss.calls
	if i >= len(ss.results) {
		i = len(ss.results) - 1
	}
	ss.calls++

	if ss.results[i] == nil {
		return nil, errors.New("unavailable")
	}
	return []InterfaceResolverSet{{Servers: ss.results[i]}}, nil
}

func TestMonitorReportsChanges(t *testing.T) {
	t.Parallel()

	src := &sequenceSource{results: [][]string{
		{"192.0.2.1"},
		{"192.0.2.1"},
		nil,
		nil,
		{"192.0.2.1"},
		{"192.0.2.1", "2001:db8::1"},
		{"192.0.2.1", "2001:db8::1"},
	}}
	d := NewDiscoveryWithSource(src)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reports []string
	err := d.Monitor(ctx, time.Millisecond, func(snapshot *ResolverSnapshot, err error) {
		if err != nil {
			assert.ErrorIs(t, err, ErrPlatformQuery)
			reports = append(reports, "error")
			return
		}
		reports = append(reports, snapshot.Checksum())
		if snapshot.Len() == 2 {
			cancel()
		}
	})
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Equal(t, "error", reports[1])
	assert.Equal(t, reports[0], reports[2])
	assert.NotEqual(t, reports[2], reports[3])
}

func TestMonitorRequiresFunc(t *testing.T) {
	t.Parallel()

	err := NewDiscoveryWithSource(staticSource()).Monitor(context.Background(), time.Second, nil)
	require.Error(t, err)
}
