package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/safing/sysresolvers/service/netenv"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", netenv.DefaultMonitorInterval, "time between checks")
	monitorCmd.Flags().BoolVar(&monitorJSON, "json", false, "print as JSON")
}

var (
	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Print the resolvers whenever they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return monitor(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), newDiscovery())
		},
	}

	monitorInterval time.Duration
	monitorJSON     bool
)

func monitor(ctx context.Context, out, errOut io.Writer, d *netenv.Discovery) error {
	return d.Monitor(ctx, monitorInterval, func(snapshot *netenv.ResolverSnapshot, err error) {
		now := time.Now().Format(time.RFC3339)
		if err != nil {
			fmt.Fprintf(errOut, "%s query failed: %s\n", now, err)
			return
		}

		if !monitorJSON {
			fmt.Fprintf(out, "# %s\n", now)
		}
		if err := writeSnapshot(out, snapshot, monitorJSON); err != nil {
			fmt.Fprintf(errOut, "failed to write: %s\n", err)
		}
	})
}
