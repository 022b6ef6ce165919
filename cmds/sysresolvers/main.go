package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safing/sysresolvers/base/info"
	"github.com/safing/sysresolvers/base/log"
	"github.com/safing/sysresolvers/service/netenv"
)

var (
	rootCmd = &cobra.Command{
		Use:               "sysresolvers",
		Short:             "Show the DNS resolvers configured on this system",
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// buildVersion is set at build time with
	// -ldflags "-X main.buildVersion=v1.0.0".
	buildVersion string

	logLevelFlag   string
	configFlag     string
	printMetrics   bool
	loadedSettings = defaultSettings()
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevelFlag, "log", "", "set log level to [trace|debug|info|warning|error|critical]")
	flags.StringVar(&configFlag, "config", "", "load settings from the given YAML file")
	flags.BoolVar(&printMetrics, "metrics", false, "print metrics to stderr before exiting")
}

func main() {
	if err := info.Set("sysresolvers", buildVersion, "GPLv3"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err := rootCmd.Execute()
	if printMetrics {
		writeMetrics(os.Stderr)
	}
	switch {
	case err == nil:
	case errors.Is(err, errNoIPv6Resolver):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(configFlag)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log") {
		s.Log = logLevelFlag
	}
	loadedSettings = s

	if log.IsStarted() {
		// Started by an earlier run of a command, only apply the level.
		if level := log.ParseLevel(s.Log); level != 0 {
			log.SetLogLevel(level)
		}
		return nil
	}
	return log.Start(s.Log, os.Stderr)
}

func newDiscovery() *netenv.Discovery {
	return netenv.NewDiscovery(&loadedSettings.Discovery)
}
