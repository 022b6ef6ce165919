package netenv

import (
	"errors"
	"fmt"

	"github.com/safing/sysresolvers/base/utils/osdetail"
)

// scutilSource reads the resolvers from the dynamic configuration store.
type scutilSource struct{}

var _ Source = scutilSource{}

func (scutilSource) Name() string { return "scutil" }

func (scutilSource) Query() ([]InterfaceResolverSet, error) {
	output, err := osdetail.RunCmd("scutil", "--dns")
	switch {
	case errors.Is(err, osdetail.ErrEmptyOutput):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to query dns configuration: %w", err)
	}
	return parseScutilDNS(output), nil
}

// defaultSource uses the dynamic configuration store and falls back to
// resolv.conf if scutil is not available.
func defaultSource(opts *Options) Source {
	fallback := &fallbackSource{
		name:    "darwin",
		sources: []Source{scutilSource{}},
	}
	if !opts.DisableResolvConf {
		fallback.sources = append(fallback.sources, &resolvConfSource{path: opts.resolvConfPath()})
	}
	return fallback
}
