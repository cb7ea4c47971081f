package main

import (
	"fmt"

	"github.com/spf13/cobra"
	ggm "github.com/yggai/ygggo_mongo"
)

// newURICmd creates the uri subcommand
func newURICmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "uri",
		Short: "Print the connection string of the configured alias",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadSettings()
			if err != nil {
				return err
			}
			uri := cfg.URI()
			if !reveal {
				uri = ggm.RedactURI(uri)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cfg.Alias(), uri)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the password")
	return cmd
}
