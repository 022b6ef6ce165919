package netenv

// DefaultResolvConfPath is the resolver configuration file used on unix
// systems.
const DefaultResolvConfPath = "/etc/resolv.conf"

// Options configures which platform sources are used.
// Sources that do not exist on the current platform are ignored.
type Options struct {
	// ResolvConfPath is the path of the resolver configuration file.
	ResolvConfPath string `yaml:"resolv_conf"`

	// DisableNetworkManager skips asking NetworkManager on Linux.
	DisableNetworkManager bool `yaml:"disable_networkmanager"`
	// DisableResolved skips asking systemd-resolved on Linux.
	DisableResolved bool `yaml:"disable_resolved"`
	// DisableResolvConf skips reading the resolver configuration file.
	DisableResolvConf bool `yaml:"disable_resolv_conf"`
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		ResolvConfPath: DefaultResolvConfPath,
	}
}

func (opts *Options) resolvConfPath() string {
	if opts == nil || opts.ResolvConfPath == "" {
		return DefaultResolvConfPath
	}
	return opts.ResolvConfPath
}
