package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dsschema "github.com/stephenplusplus/gcloud-datastore-schema"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dsschema",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dsschema version %s\n", dsschema.Version)
		},
	}
}
