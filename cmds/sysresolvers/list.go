package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safing/sysresolvers/service/netenv"
)

var errNoIPv6Resolver = errors.New("no IPv6 resolver configured")

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(bestIPv6Cmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print as JSON")
}

var (
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List all resolvers in order of preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := newDiscovery().Snapshot()
			if err != nil {
				return err
			}
			return writeSnapshot(cmd.OutOrStdout(), snapshot, listJSON)
		},
	}
	bestIPv6Cmd = &cobra.Command{
		Use:   "best-ipv6",
		Short: "Print the most preferred IPv6 resolver",
		Long:  "Print the most preferred IPv6 resolver. Exits with code 1 if there is none.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeBestIPv6(cmd.OutOrStdout(), newDiscovery())
		},
	}

	listJSON bool
)

type snapshotJSON struct {
	Resolvers []netenv.ResolverAddress `json:"resolvers"`
	BestIPv6  *netenv.ResolverAddress  `json:"best_ipv6"`
}

func writeSnapshot(w io.Writer, snapshot *netenv.ResolverSnapshot, asJSON bool) error {
	if !asJSON {
		for _, addr := range snapshot.Addresses() {
			if _, err := fmt.Fprintln(w, addr); err != nil {
				return err
			}
		}
		return nil
	}

	out := snapshotJSON{
		Resolvers: snapshot.Addresses(),
	}
	if out.Resolvers == nil {
		out.Resolvers = []netenv.ResolverAddress{}
	}
	if best, ok := snapshot.BestIPv6(); ok {
		out.BestIPv6 = &best
	}
	return json.NewEncoder(w).Encode(out)
}

func writeBestIPv6(w io.Writer, d *netenv.Discovery) error {
	best, ok, err := d.BestIPv6Resolver()
	switch {
	case err != nil:
		return err
	case !ok:
		return errNoIPv6Resolver
	}
	_, err = fmt.Fprintln(w, best)
	return err
}
