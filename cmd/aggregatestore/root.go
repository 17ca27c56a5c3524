/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/aggregatestore"
	"github.com/suparena/aggregatestore/config"
	"github.com/suparena/aggregatestore/container"
	"github.com/suparena/aggregatestore/errors"
	"github.com/suparena/aggregatestore/internal/logger"
	"github.com/suparena/aggregatestore/internal/ordering"
	"github.com/suparena/aggregatestore/module"
	"github.com/suparena/aggregatestore/repository/ddb"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	debug      bool
}

// knownModules maps module names to their definitions.
var knownModules = map[string]func() module.Module{
	"ordering": func() module.Module { return ordering.Module() },
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "aggregatestore",
		Short:         "Inspect and query aggregate repositories",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(newVersionCmd(), newInspectCmd(opts), newGetCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := aggregatestore.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aggregatestore version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		},
	}
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List the aggregate repositories discovered in the enabled modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, cleanup, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AGGREGATE\tIMPLEMENTATION\tFACET\tMODULE")
			for _, r := range p.Aggregates() {
				facet := r.Facet
				if facet == "" {
					facet = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Aggregate, r.Implementation, facet, r.Module)
			}
			return w.Flush()
		},
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <aggregate> <id>",
		Short: "Load an aggregate by type name and root ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer cleanup()

			var reg *aggregatestore.Registration
			for _, r := range p.Aggregates() {
				if strings.EqualFold(r.Aggregate.Name(), args[0]) {
					r := r
					reg = &r
					break
				}
			}
			if reg == nil {
				return fmt.Errorf("no repository serves aggregate %q", args[0])
			}

			proxy, err := p.GetRequired(reg.Aggregate)
			if err != nil {
				return err
			}
			agg, err := proxy.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Aggregate string          `json:"aggregate"`
				FetchedAt strfmt.DateTime `json:"fetchedAt"`
				Value     any             `json:"value"`
			}{
				Aggregate: reg.Aggregate.String(),
				FetchedAt: strfmt.DateTime(time.Now().UTC()),
				Value:     agg,
			})
		},
	}
}

// bootstrap wires the configured backend into a container and initializes a
// provider over the enabled modules.
func bootstrap(ctx context.Context, opts *rootOptions) (*aggregatestore.Provider, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.configPath, opts.envFiles...)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Mode, opts.debug)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	cleanup := func() { _ = log.Sync() }

	stores, err := newStores(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	log.Info("Wiring repositories...", zap.String("backend", cfg.Backend))
	c := container.New()
	if err := ordering.Register(c, stores); err != nil {
		cleanup()
		return nil, nil, err
	}

	if err := checkModules(cfg.Modules); err != nil {
		cleanup()
		return nil, nil, err
	}

	var modules []module.Module
	for name, build := range knownModules {
		if cfg.ModuleEnabled(name) {
			modules = append(modules, build())
		}
	}

	p := aggregatestore.NewProvider(c, aggregatestore.WithLogger(log))
	if err := p.Initialize(ctx, modules...); err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

// checkModules rejects configured module names that no known module answers to.
func checkModules(names []string) error {
	for _, name := range names {
		known := false
		for k := range knownModules {
			if strings.EqualFold(k, name) {
				known = true
				break
			}
		}
		if !known {
			return errors.NewValidationError("modules", fmt.Sprintf("unknown module %q", name))
		}
	}
	return nil
}

func newStores(ctx context.Context, cfg config.Config) (ordering.Stores, error) {
	switch cfg.Backend {
	case config.BackendDynamoDB:
		client, err := ddb.NewClient(ctx, ddb.ClientConfig{
			Region:    cfg.DynamoDB.Region,
			AccessKey: cfg.DynamoDB.AccessKey,
			SecretKey: cfg.DynamoDB.SecretKey,
			Endpoint:  cfg.DynamoDB.Endpoint,
		})
		if err != nil {
			return ordering.Stores{}, err
		}
		return ordering.DynamoStores(client, cfg.DynamoDB.Table, cfg.IndexMaps)
	default:
		return ordering.MemoryStores(), nil
	}
}
