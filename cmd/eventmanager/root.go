/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	eventmanager "github.com/kamileo242/EventManager"
	"github.com/kamileo242/EventManager/config"
	"github.com/kamileo242/EventManager/logger"
	"github.com/kamileo242/EventManager/service"
)

// app holds the global flags and the store opened for one command.
type app struct {
	configPath string
	driver     string
	dsn        string
	debug      bool
	output     string

	log *zap.Logger
	svc *eventmanager.Services
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "eventmanager",
		Short:         "Manage users, events, addresses and event participants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML configuration file")
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "storage driver: memory, sqlite, postgres, bolt or dynamodb")
	root.PersistentFlags().StringVar(&a.dsn, "dsn", "", "database file or connection string")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		newVersionCmd(a),
		newUsersCmd(a),
		newEventsCmd(a),
		newAddressesCmd(a),
		newParticipantsCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.print(cmd, eventmanager.GetVersionInfo())
		},
	}
}

// withStore opens the configured store around run.
func (a *app) withStore(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		if a.driver != "" {
			cfg.Storage.Driver = a.driver
		}
		if a.dsn != "" {
			cfg.Storage.DSN = a.dsn
		}
		if a.debug {
			cfg.Log.Level = "debug"
			cfg.Log.Development = true
		}

		a.log, err = logger.New(cfg.Log)
		if err != nil {
			return err
		}
		defer func() { _ = a.log.Sync() }()

		store, err := eventmanager.Open(cmd.Context(), cfg, eventmanager.WithLogger(a.log))
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				a.log.Warn("close storage", zap.Error(err))
			}
		}()
		a.svc = store.Services(service.WithLogger(a.log))

		return run(cmd, args)
	}
}

func (a *app) print(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	switch a.output {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format %q", a.output)
}
