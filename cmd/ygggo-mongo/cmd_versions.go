package main

import (
	"fmt"

	"github.com/spf13/cobra"
	ggm "github.com/yggai/ygggo_mongo"
)

// newVersionsCmd creates the versions subcommand
func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List supported driver versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range ggm.NewDefaultFactory().Versions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", int(v), driverModule(v))
			}
			return nil
		},
	}
}

func driverModule(v ggm.DriverVersion) string {
	switch v {
	case ggm.DriverV1:
		return "go.mongodb.org/mongo-driver"
	case ggm.DriverV2:
		return "go.mongodb.org/mongo-driver/v2"
	default:
		return "unknown"
	}
}
