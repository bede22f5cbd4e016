package main

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	dsschema "github.com/stephenplusplus/gcloud-datastore-schema"
	"github.com/stephenplusplus/gcloud-datastore-schema/internal/loader"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/adapters/memory"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/adapters/redis"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/observability"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/registry"
)

type saveFlags struct {
	dataPath      string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisPrefix   string
	ttl           time.Duration
	asJSON        bool
}

func newSaveCmd(g *globalFlags) *cobra.Command {
	sf := &saveFlags{}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save entities through schema validation",
		Long: `Saves all entities of the data file as one batch. If any entity violates its schema nothing is written
and the violations are printed. Without --redis-addr entities go to a throwaway in-memory store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger()
			if err != nil {
				return err
			}
			f, err := g.schemas()
			if err != nil {
				return err
			}
			entities, err := loader.LoadEntities(sf.dataPath)
			if err != nil {
				return err
			}

			var store ports.EntityStore
			if sf.redisAddr != "" {
				rs := redis.New(sf.redisAddr, sf.redisPassword, sf.redisDB,
					redis.WithPrefix(sf.redisPrefix),
					redis.WithTTL(sf.ttl),
				)
				defer rs.Close()
				store = rs
			} else {
				store = memory.NewStore()
			}

			reg := registry.NewRegistry()
			f.RegisterAll(reg)

			ds, err := dsschema.New(store,
				dsschema.WithLogger(logger),
				dsschema.WithRegistry(reg),
				dsschema.WithArrayReport(g.arrayReport()),
				dsschema.WithValidationHooks(observability.LogHooks(logger)),
			)
			if err != nil {
				return err
			}

			err = ds.Save(context.Background(), entities...)
			if v, ok := domain.AsViolation(err); ok {
				if sf.asJSON {
					out, mErr := json.MarshalIndent(v, "", "  ")
					if mErr != nil {
						return mErr
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(out))
				} else {
					newPrinter(cmd.OutOrStdout()).violations(v)
				}
				return errViolations
			}
			if err != nil {
				return fmt.Errorf("save failed: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			for _, e := range entities {
				p.ok("saved %s", e.Key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sf.dataPath, "data", "", "Entity file (YAML or JSON)")
	cmd.Flags().StringVar(&sf.redisAddr, "redis-addr", "", "Redis address; empty uses an in-memory store")
	cmd.Flags().StringVar(&sf.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&sf.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&sf.redisPrefix, "redis-prefix", redis.DefaultPrefix, "Key prefix for stored entities")
	cmd.Flags().DurationVar(&sf.ttl, "ttl", 0, "Expiration for stored entities (0 keeps them forever)")
	cmd.Flags().BoolVar(&sf.asJSON, "json", false, "Print violations as JSON")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
