package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rl1809/parts-inventory/internal/adapter/storage"
	"github.com/rl1809/parts-inventory/internal/config"
	"github.com/rl1809/parts-inventory/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:          "inventory",
		Short:        "Parts and products inventory service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default ./inventory.yaml if present)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("storage-driver", "sqlite", "Durable store: memory, sqlite or mysql")
	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("storage.driver", root.PersistentFlags().Lookup("storage-driver"))

	load := func() (*config.Config, error) {
		return config.Load(v, configFile)
	}

	root.AddCommand(newServeCmd(v, load))
	root.AddCommand(newSnapshotCmd(load))
	return root
}

func newServeCmd(v *viper.Viper, load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return run(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	cmd.Flags().String("grpc-addr", ":50051", "gRPC listen address")
	cmd.Flags().Int("workers", 4, "Replication workers")
	_ = v.BindPFlag("http_addr", cmd.Flags().Lookup("http-addr"))
	_ = v.BindPFlag("grpc_addr", cmd.Flags().Lookup("grpc-addr"))
	_ = v.BindPFlag("replication.workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func newSnapshotCmd(load func() (*config.Config, error)) *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect the durable store",
	}

	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write the stored inventory to stdout as a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver == config.DriverMemory {
				return fmt.Errorf("storage driver %q has nothing to export", cfg.Storage.Driver)
			}

			ctx := context.Background()
			db, closeDB, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			snapshot, err := db.LoadSnapshot(ctx)
			if err != nil {
				return err
			}
			return storage.WriteSnapshot(cmd.OutOrStdout(), snapshot)
		},
	})
	return snapshotCmd
}
