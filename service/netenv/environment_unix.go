//go:build !linux && !darwin && !windows

package netenv

func defaultSource(opts *Options) Source {
	stack := &stackedSource{name: "unix"}
	if !opts.DisableResolvConf {
		stack.sources = append(stack.sources, &resolvConfSource{path: opts.resolvConfPath()})
	}
	return stack
}
