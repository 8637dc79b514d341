package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pg-sharding/mongoshard/pkg"
	"github.com/pg-sharding/mongoshard/pkg/admin"
	"github.com/pg-sharding/mongoshard/pkg/admin/mongoadm"
	"github.com/pg-sharding/mongoshard/pkg/bootstrap"
	"github.com/pg-sharding/mongoshard/pkg/config"
	"github.com/pg-sharding/mongoshard/pkg/models/mserror"
	"github.com/pg-sharding/mongoshard/pkg/mslog"
)

var (
	cfgPath      string
	logLevel     string
	routerURI    string
	strategy     string
	skipExisting bool
	prettyLogs   bool

	dryRun     bool
	jsonOutput bool
)

// newAdmin is replaced in tests.
var newAdmin = func(cfg *config.Bootstrap) (admin.Admin, error) {
	opts, err := mongoadm.OptionsFromConfig(cfg)
	if err != nil {
		return nil, mserror.Newf(mserror.MSH_CONFIG_ERROR, "tls: %w", err)
	}
	return mongoadm.NewAdapter(opts)
}

var rootCmd = &cobra.Command{
	Use:   "mongoshard run --config `config-path`",
	Short: "Sharded MongoDB cluster bootstrapper",
	Long: `mongoshard initiates the replica sets backing each shard and registers
them as shards with the mongos router.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return loadConfig(cmd)
	},
}

// loadConfig reads the config file and lets explicitly set flags win over it.
func loadConfig(cmd *cobra.Command) error {
	if _, err := config.LoadBootstrapCfg(cfgPath); err != nil {
		return mserror.Newf(mserror.MSH_CONFIG_ERROR, "load %q: %w", cfgPath, err)
	}
	cfg := config.BootstrapConfig()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("router-uri") {
		cfg.RouterURI = routerURI
	}
	if flags.Changed("strategy") {
		cfg.Wait.Strategy = strategy
	}
	if flags.Changed("skip-existing") {
		cfg.SkipExisting = skipExisting
	}
	if flags.Changed("pretty") {
		cfg.PrettyLogging = prettyLogs
	}
	if err := cfg.Validate(); err != nil {
		return mserror.Newf(mserror.MSH_CONFIG_ERROR, "%w", err)
	}

	if err := mslog.ReloadLogger(cfg.LogFile, cfg.PrettyLogging); err != nil {
		return mserror.Newf(mserror.MSH_CONFIG_ERROR, "log_file %q: %w", cfg.LogFile, err)
	}
	if err := mslog.UpdateZeroLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	mslog.Zero.Debug().
		Str("config", cfg.String()).
		Msg("running config")
	return nil
}

// withAdmin opens the cluster admin connections for the duration of fn.
func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Bootstrap, adm admin.Admin) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.BootstrapConfig()
	adm, err := newAdmin(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		if err := adm.Close(closeCtx); err != nil {
			mslog.Zero.Error().Err(err).Msg("failed to close cluster connections")
		}
	}()

	return fn(ctx, cfg, adm)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "initiate every replica set and register it as a shard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dryRun {
			return bootstrap.NewFromConfig(config.BootstrapConfig(), nil).Plan(cmd.OutOrStdout())
		}
		return withAdmin(cmd, func(ctx context.Context, cfg *config.Bootstrap, adm admin.Admin) error {
			return bootstrap.NewFromConfig(cfg, adm).Run(ctx)
		})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "print the bootstrap steps without contacting the cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap.NewFromConfig(config.BootstrapConfig(), nil).Plan(cmd.OutOrStdout())
	},
}

var initiateCmd = &cobra.Command{
	Use:   "initiate",
	Short: "initiate replica sets only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, cfg *config.Bootstrap, adm admin.Admin) error {
			return bootstrap.NewFromConfig(cfg, adm).InitiateAll(ctx)
		})
	},
}

var addShardsCmd = &cobra.Command{
	Use:   "add-shards",
	Short: "register already initiated replica sets as shards",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, cfg *config.Bootstrap, adm admin.Admin) error {
			b := bootstrap.NewFromConfig(cfg, adm)
			if err := b.AddShards(ctx); err != nil {
				return err
			}
			return b.EnableSharding(ctx)
		})
	},
}

var listShardsCmd = &cobra.Command{
	Use:   "list-shards",
	Short: "list shards registered with the router",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, cfg *config.Bootstrap, adm admin.Admin) error {
			shards, err := adm.ListShards(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(shards)
			}
			fmt.Fprintf(out, "-------------------------------------\n")
			fmt.Fprintf(out, "%d shards found\n", len(shards))
			for _, sh := range shards {
				fmt.Fprintf(out, "shard %s serving on %s (state %d)\n", sh.ID, sh.Host, sh.State)
			}
			fmt.Fprintf(out, "-------------------------------------\n")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show replica set health for every planned shard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, cfg *config.Bootstrap, adm admin.Admin) error {
			reports, err := bootstrap.StatusReport(ctx, adm, cfg.ReplicaSetModels())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range reports {
				switch {
				case r.Err != nil:
					fmt.Fprintf(out, "%s: error: %v\n", r.ReplicaSet.ID, r.Err)
				case r.Status.Ready():
					fmt.Fprintf(out, "%s: ready, primary %s\n", r.ReplicaSet.ID, r.Status.Primary().Name)
				default:
					fmt.Fprintf(out, "%s: no healthy primary\n", r.ReplicaSet.ID)
				}
			}
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mongoshard %s\n", pkg.MongoshardVersionRevision)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (.toml, .yaml or .json), defaults to the stock three-shard layout")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&routerURI, "router-uri", "r", config.DefaultRouterURI, "mongos connection URI")
	rootCmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", config.WaitStrategyPoll, "how to wait for replica sets: poll or delay")
	rootCmd.PersistentFlags().BoolVarP(&skipExisting, "skip-existing", "", false, "tolerate already initialized replica sets and registered shards")
	rootCmd.PersistentFlags().BoolVarP(&prettyLogs, "pretty", "", false, "human readable logs instead of JSON")

	runCmd.Flags().BoolVarP(&dryRun, "dry-run", "", false, "print the plan and exit")
	listShardsCmd.Flags().BoolVarP(&jsonOutput, "json", "", false, "print shards as a JSON array")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(initiateCmd)
	rootCmd.AddCommand(addShardsCmd)
	rootCmd.AddCommand(listShardsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		mslog.Zero.Error().Err(err).Msg("mongoshard failed")
		os.Exit(1)
	}
}
