package netenv

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/safing/sysresolvers/base/log"
)

// Source reports the resolver configuration of the operating system.
// Query must return an error only if the configuration cannot be accessed.
type Source interface {
	Name() string
	Query() ([]InterfaceResolverSet, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc struct {
	SourceName string
	Fn         func() ([]InterfaceResolverSet, error)
}

var _ Source = SourceFunc{}

// Name returns the source name.
func (sf SourceFunc) Name() string { return sf.SourceName }

// Query calls the wrapped function.
func (sf SourceFunc) Query() ([]InterfaceResolverSet, error) { return sf.Fn() }

// stackedSource queries all sources and ranks every set of a source before
// the sets of the next source. Failing sources are skipped, the stack only
// fails if every source fails.
type stackedSource struct {
	name    string
	sources []Source
}

var _ Source = (*stackedSource)(nil)

func (ss *stackedSource) Name() string { return ss.name }

func (ss *stackedSource) Query() ([]InterfaceResolverSet, error) {
	if len(ss.sources) == 0 {
		return nil, errors.New("no sources enabled")
	}

	var (
		sets     []InterfaceResolverSet
		errs     *multierror.Error
		base     int
		answered bool
	)
	for _, src := range ss.sources {
		srcSets, err := src.Query()
		if err != nil {
			log.Debugf("netenv: source %s failed: %s", src.Name(), err)
			errs = multierror.Append(errs, newQueryError(src.Name(), err))
			continue
		}
		answered = true

		// Shift priorities so that this source ranks after the previous ones.
		next := base
		for _, set := range srcSets {
			set.Priority += base
			if set.Priority >= next {
				next = set.Priority + 1
			}
			sets = append(sets, set)
		}
		base = next
	}

	if !answered {
		return nil, errs.ErrorOrNil()
	}
	return sets, nil
}

// fallbackSource returns the result of the first source that answers.
type fallbackSource struct {
	name    string
	sources []Source
}

var _ Source = (*fallbackSource)(nil)

func (fs *fallbackSource) Name() string { return fs.name }

func (fs *fallbackSource) Query() ([]InterfaceResolverSet, error) {
	if len(fs.sources) == 0 {
		return nil, errors.New("no sources enabled")
	}

	var errs *multierror.Error
	for _, src := range fs.sources {
		sets, err := src.Query()
		if err == nil {
			return sets, nil
		}
		log.Debugf("netenv: source %s failed, trying next: %s", src.Name(), err)
		errs = multierror.Append(errs, newQueryError(src.Name(), err))
	}
	return nil, errs.ErrorOrNil()
}
