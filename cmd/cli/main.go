package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/artistus/pkg/config"
	"github.com/wadjakorntonsri/artistus/pkg/core/services"
	"github.com/wadjakorntonsri/artistus/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds what every subcommand needs once the root has run.
type cli struct {
	cfg  *config.Config
	log  *zap.Logger
	repo *sqlite.SQLiteRepository
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "artistus",
		Short:        "Maintenance commands for artist pages",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = config.Load()
			log, err := logger.New(c.cfg.AppEnv, c.cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			c.log = log
			repo, err := sqlite.NewSQLiteRepository(c.cfg.DatabaseURL, log.Named("sqlite"))
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			c.repo = repo
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = c.log.Sync()
			return c.repo.Close()
		},
	}
	root.AddCommand(c.exportCmd(), c.importCmd(), c.subscribersCmd(), c.migrateCmd())
	return root
}

func (c *cli) exportCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump a profile's page data as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportBundle(cmd.Context(), c.repo, username, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "profile to export")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var username, file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore link collections from an export into a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			n, err := importBundle(cmd.Context(), c.repo, username, f, c.log)
			if err != nil {
				return err
			}
			c.log.Info("import finished", zap.String("username", username), zap.Int("links", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "profile to import into")
	cmd.Flags().StringVar(&file, "file", "", "JSON file produced by export")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) subscribersCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Write a profile's subscribers as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSubscribers(cmd.Context(), c.repo, c.log, username, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "profile whose subscribers to export")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the repository applies the schema.
			c.log.Info("database schema is up to date", zap.String("database", redact(c.cfg.DatabaseURL)))
			return nil
		},
	}
}

// redact drops the query string, where remote databases carry tokens.
func redact(dbURL string) string {
	base, _, _ := strings.Cut(dbURL, "?")
	return base
}

func writeSubscribers(ctx context.Context, repo *sqlite.SQLiteRepository, log *zap.Logger, username string, w io.Writer) error {
	p, err := repo.GetProfileByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return fmt.Errorf("find %s: %w", username, err)
	}
	subs := services.NewSubscriberService(repo, repo, log)
	return subs.ExportCSV(ctx, p.ID, w)
}
