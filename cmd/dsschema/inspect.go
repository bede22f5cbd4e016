package main

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [kind...]",
		Short: "Print the parsed schemas as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := g.schemas()
			if err != nil {
				return err
			}

			kinds := args
			if len(kinds) == 0 {
				for k := range f.Kinds {
					kinds = append(kinds, k)
				}
				sort.Strings(kinds)
			}

			for _, kind := range kinds {
				s, ok := f.Kinds[kind]
				if !ok {
					return fmt.Errorf("kind %q not found in %s", kind, g.schemaPath)
				}
				out, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return fmt.Errorf("%s: %w", kind, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", kind, out)
			}
			return nil
		},
	}
}
