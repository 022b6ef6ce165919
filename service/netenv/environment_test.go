package netenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironment(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping test in short mode because it depends on the host")
	}

	snapshot, err := GetSnapshot()
	if err != nil {
		t.Logf("platform query failed: %s", err)
		assert.ErrorIs(t, err, ErrPlatformQuery)
		return
	}
	t.Logf("resolvers: %v", snapshot.Addresses())

	best, ok := snapshot.BestIPv6()
	t.Logf("best ipv6: %q (%v)", best, ok)
	if ok {
		assert.Contains(t, snapshot.Addresses(), best)
	}
}
