package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/portfolio/internal"
	"github.com/2beens/portfolio/internal/blog"
	"github.com/2beens/portfolio/internal/config"
	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/projects"
	"github.com/2beens/portfolio/internal/users"
)

var (
	cfgFile string
	envName string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "portfolioctl",
	Short: "Portfolio backend admin tool",
	Long: `portfolioctl works directly against the configured document store.

It can hash passwords, manage users and roles, seed demo content and back
up uploads and content to google drive.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// commands that don't touch the store
		if cmd.Name() == "hash-password" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(envName, cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.DBDriver == config.DBDriverMemory {
			log.Warnln("memory document store configured, changes will be lost on exit")
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "development", "environment [prod | production | dev | development]")

	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(backupCmd)
}

// services holds the repos the commands work with
type services struct {
	store    odm.Store
	dbPool   *pgxpool.Pool
	users    *users.Repo
	posts    *blog.Repo
	projects *projects.Repo
}

func initServices(ctx context.Context) (*services, error) {
	store, dbPool, err := internal.NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &services{
		store:    store,
		dbPool:   dbPool,
		users:    users.NewRepo(store, cfg.AdminEmails),
		posts:    blog.NewRepo(store),
		projects: projects.NewRepo(store),
	}

	for name, setup := range map[string]func(context.Context) error{
		"users":    s.users.Setup,
		"posts":    s.posts.Setup,
		"projects": s.projects.Setup,
	} {
		if err := setup(ctx); err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("setup %s repo: %w", name, err)
		}
	}

	return s, nil
}

func (s *services) Close(ctx context.Context) {
	if err := s.store.Close(ctx); err != nil {
		log.Errorf("close store: %s", err)
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
