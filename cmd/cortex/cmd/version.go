package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peniel-r/cortex/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var jsonOut bool
	var short bool

	c := &cobra.Command{
		Use:   "version",
		Short: "Print cortex version information",
		// version does not need a cortex root; skip the parent's config load.
		PersistentPreRunE: func(c *cobra.Command, args []string) error { return nil },
		RunE: func(c *cobra.Command, args []string) error {
			switch {
			case jsonOut:
				enc := json.NewEncoder(c.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			case short:
				fmt.Fprintln(c.OutOrStdout(), version.Short())
			default:
				fmt.Fprintln(c.OutOrStdout(), version.String())
			}
			return nil
		},
	}

	c.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	c.Flags().BoolVar(&short, "short", false, "output only the version number")
	return c
}
