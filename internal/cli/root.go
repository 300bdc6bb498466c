// Package cli provides the command-line interface for projectdb.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/biyonik/fluentdb"
	"github.com/biyonik/fluentdb/internal/config"
	"github.com/biyonik/fluentdb/internal/logging"
	"github.com/biyonik/fluentdb/projectdb"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "projectdb",
		Short: "projectdb - project registry on SQLite, MySQL or PostgreSQL",
		Long: `projectdb keeps a registry of named projects (group, status, script, comments,
rate, burst, updatetime) in a single table of a relational database.`,
		Version: fluentdb.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if cfg.Debug {
				level = zerolog.DebugLevel.String()
			}
			log := logging.NewWithComponent(logging.Config{
				Level:  level,
				Pretty: true,
				Output: cmd.ErrOrStderr(),
			}, "projectdb")

			if cfg.File != "" {
				log.Debug().Str("file", cfg.File).Msg("using config file")
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, log)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./projectdb.yaml)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver (sqlite|mysql|postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "Data source name passed to the driver as is")
	rootCmd.PersistentFlags().String("path", "", "Path to SQLite database")
	rootCmd.PersistentFlags().String("table", "", "Project table name")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every SQL statement")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "mysql", "postgres"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(fluentdb.Version))
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewInsertCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewChangedCommand())
	rootCmd.AddCommand(NewDropCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{Output: config.OutputTable}
}

func loggerFrom(ctx context.Context) zerolog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return log
	}
	return zerolog.Nop()
}

// openStore connects with the loaded configuration and makes sure the project table exists.
// The returned func closes the connection.
func openStore(cmd *cobra.Command) (*projectdb.Store, func(), error) {
	ctx := cmd.Context()
	cfg := configFrom(ctx)
	log := loggerFrom(ctx)

	opts := []fluentdb.Option{
		fluentdb.WithDebug(cfg.Debug),
		fluentdb.WithLogger(fluentdb.NewZerologLogger(log)),
	}

	var (
		db  *fluentdb.DB
		err error
	)
	if cfg.DSN != "" {
		driver, dsn := cfg.DataSource()
		if cfg.Database.Prefix != "" {
			opts = append(opts, fluentdb.WithTablePrefix(cfg.Database.Prefix))
		}
		db, err = fluentdb.Connect(ctx, driver, dsn, opts...)
	} else {
		db, err = fluentdb.ConnectWithConfig(ctx, &cfg.Database, opts...)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect: %w", err)
	}

	store, err := projectdb.New(ctx, db, projectdb.WithTable(cfg.Table))
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare table %s: %w", cfg.Table, err)
	}

	log.Debug().
		Str("driver", cfg.Database.DriverName()).
		Str("dialect", db.Dialect().Name()).
		Str("table", cfg.Table).
		Msg("store ready")

	return store, func() { _ = db.Close() }, nil
}
