package netenv

// defaultSource stacks NetworkManager, systemd-resolved and resolv.conf, in
// this order. Sources that are not available are skipped. systemd-resolved is
// asked over D-Bus and, if that fails, over varlink.
func defaultSource(opts *Options) Source {
	stack := &stackedSource{name: "linux"}

	if !opts.DisableNetworkManager {
		stack.sources = append(stack.sources, networkManagerSource{})
	}
	if !opts.DisableResolved {
		stack.sources = append(stack.sources, &fallbackSource{
			name:    "systemd-resolved",
			sources: []Source{resolvedSource{}, resolvedVarlinkSource{}},
		})
	}
	if !opts.DisableResolvConf {
		stack.sources = append(stack.sources, &resolvConfSource{path: opts.resolvConfPath()})
	}

	return stack
}
