package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/safing/sysresolvers/base/info"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print the version number only")
}

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show version and related metadata.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout(), versionShort)
		},
	}

	versionShort bool
)

func writeVersion(w io.Writer, short bool) error {
	if err := info.CheckVersion(); err != nil {
		return err
	}

	if short {
		_, err := fmt.Fprintln(w, info.SemVer())
		return err
	}
	_, err := fmt.Fprintln(w, info.FullVersion())
	return err
}
