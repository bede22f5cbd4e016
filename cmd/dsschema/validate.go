package main

import (
	"github.com/spf13/cobra"

	"github.com/stephenplusplus/gcloud-datastore-schema/internal/loader"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/registry"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check entities against their schemas without saving",
		Long:  `Reports every violation of every entity in the data file. Entities of kinds missing from the schema file are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger()
			if err != nil {
				return err
			}
			f, err := g.schemas()
			if err != nil {
				return err
			}
			entities, err := loader.LoadEntities(dataPath)
			if err != nil {
				return err
			}

			reg := registry.NewRegistry()
			f.RegisterAll(reg)
			validator := schema.NewValidator(schema.WithArrayReport(g.arrayReport()))
			p := newPrinter(cmd.OutOrStdout())

			failed := 0
			for _, e := range entities {
				kind := e.Kind()
				s, ok := reg.Lookup(kind)
				if !ok {
					logger.Debug("no schema for kind", "kind", kind)
					p.skip("%s (no schema for %s)", e.Key, kind)
					continue
				}

				v := validator.Validate(s, e.Data)
				if len(v) == 0 {
					p.ok("%s", e.Key)
					continue
				}
				failed++
				p.fail("%s", e.Key)
				for _, msg := range v {
					p.violation(msg)
				}
			}

			logger.Info("validation finished", "entities", len(entities), "failed", failed)
			if failed > 0 {
				return errViolations
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Entity file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
