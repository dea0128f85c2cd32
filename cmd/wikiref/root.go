package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wikiref/internal/auth"
	"wikiref/internal/config"
	"wikiref/internal/database"
	"wikiref/internal/logging"
	"wikiref/internal/page"
	"wikiref/internal/project"
	"wikiref/internal/redirect"
	"wikiref/internal/wiki"
)

// app carries what every command needs once the root command has set up.
type app struct {
	configPath string
	dsn        string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
}

// newRootCmd builds the command tree around a. The caller closes a once
// Execute returns, since cobra skips post-run hooks when a command fails.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wikiref",
		Short: "wikiref - project wikis with cross-project page references",
		Long: `wikiref serves per-project wikis and resolves page references.

A reference is a page id ("42") resolved in a given project, or a compound
"project:42" reference where the prefix is a project identifier or name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "wikiref.toml", "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&a.dsn, "dsn", "", "database path (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newResolveCmd(a),
		newProjectCmd(a),
		newUserCmd(a),
		newMemberCmd(a),
		newWikiCmd(a),
	)
	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dsn != "" {
		cfg.DSN = a.dsn
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}

	a.db, err = database.New(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(a.db); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}
	a.logger.Debug("database migrated", zap.String("dsn", cfg.DSN))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
		a.logger = nil
	}
}

func (a *app) resolver() *wiki.Resolver {
	authRepo := auth.NewRepository(a.db)
	projectRepo := project.NewRepository(a.db)
	return wiki.NewResolver(wiki.Deps{
		Pages:      page.NewRepository(a.db),
		Redirects:  redirect.NewRepository(a.db),
		Projects:   projectRepo,
		Wikis:      wiki.NewRepository(a.db),
		Authorizer: auth.NewAuthorizer(authRepo, projectRepo),
		Logger:     a.logger,
	})
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup already migrated.
			fmt.Fprintln(cmd.OutOrStdout(), "database migrated")
			return nil
		},
	}
}
