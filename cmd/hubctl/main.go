package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/app"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/observability"
	"github.com/ManasMalla/devfest-vizag-2025/internal/persistence"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
)

// cli holds the dependencies shared by every command.
type cli struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *app.Store
	ctx    context.Context
}

var env *cli

func main() {
	rootCmd := &cobra.Command{
		Use:   "hubctl",
		Short: "Operator tasks for the DevFest hub",
		Long:  `Runs migrations, bootstraps the first admin and manages the local user directory.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initCLI()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env != nil {
				env.store.Close()
				_ = env.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(adminsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(tokensCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCLI() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Driver != "postgres" {
		return fmt.Errorf("hubctl needs STORE_DRIVER=postgres, got %q", cfg.Store.Driver)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	ctx := context.Background()
	// Migrations run only through the migrate command.
	cfg.Postgres.RunMigrations = false
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	env = &cli{cfg: cfg, logger: logger, store: store, ctx: ctx}
	return nil
}

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = env.cfg.Postgres.MigrationsDir
			}
			if err := persistence.RunMigrations(env.ctx, env.store.Postgres.PoolHandle(), dir, env.logger); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (defaults to POSTGRES_MIGRATIONS_DIR)")
	return cmd
}

func adminsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "admins", Short: "Manage the admins set"}

	var email string
	bootstrap := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the first admin; refused once any admin exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, closeProvider, err := app.NewIdentityProvider(env.cfg, env.store.Repos.Users, env.logger)
			if err != nil {
				return err
			}
			defer closeProvider()
			admins := service.NewAdminService(service.AdminDependencies{
				AdminRepo:        env.store.Repos.Admins,
				IdentityProvider: provider,
			})
			admin, err := admins.BootstrapAdmin(env.ctx, service.AddAdminInput{Email: email})
			if err != nil {
				return err
			}
			fmt.Printf("admin created: %s (%s)\n", admin.Email, admin.UID)
			return nil
		},
	}
	bootstrap.Flags().StringVar(&email, "email", "", "Email of a registered user")
	_ = bootstrap.MarkFlagRequired("email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List admins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admins, err := env.store.Repos.Admins.List(env.ctx)
			if err != nil {
				return err
			}
			fmt.Printf("\nFound %d admins:\n\n", len(admins))
			for _, a := range admins {
				fmt.Printf("- %s (%s)\n", a.Email, a.UID)
			}
			return nil
		},
	}

	cmd.AddCommand(bootstrap, list)
	return cmd
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage the local user directory"}

	var uid, email string
	var disabled bool
	upsert := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update a directory user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uid == "" {
				uid = uuid.NewString()
			}
			user := &repository.DirectoryUser{UID: uid, Email: email, Disabled: disabled}
			if err := env.store.Repos.Users.Upsert(env.ctx, user); err != nil {
				return err
			}
			fmt.Printf("user %s <%s> saved\n", user.UID, user.Email)
			return nil
		},
	}
	upsert.Flags().StringVar(&uid, "uid", "", "User id (generated when empty)")
	upsert.Flags().StringVar(&email, "email", "", "User email")
	upsert.Flags().BoolVar(&disabled, "disabled", false, "Disable the account")
	_ = upsert.MarkFlagRequired("email")

	var revokeUID string
	revoke := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke every token issued to a user until now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.store.Repos.Users.RevokeTokens(env.ctx, revokeUID, time.Now().UTC()); err != nil {
				return err
			}
			fmt.Printf("tokens of %s revoked\n", revokeUID)
			return nil
		},
	}
	revoke.Flags().StringVar(&revokeUID, "uid", "", "User id")
	_ = revoke.MarkFlagRequired("uid")

	cmd.AddCommand(upsert, revoke)
	return cmd
}

func tokensCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tokens", Short: "Issue local bearer tokens"}

	var email string
	var ttl time.Duration
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a token for a directory user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.cfg.Auth.Provider != "local" {
				return fmt.Errorf("tokens are issued by the identity provider when AUTH_PROVIDER=%s", env.cfg.Auth.Provider)
			}
			provider := auth.NewLocalProvider(env.cfg.Auth.JWTSecret, env.cfg.Auth.Issuer, env.store.Repos.Users)
			user, err := provider.GetUserByEmail(env.ctx, email)
			if err != nil {
				return fmt.Errorf("look up %s: %w", email, err)
			}
			token, expiresAt, err := provider.IssueToken(user.UID, user.Email, ttl)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n(expires %s)\n", token, expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	issue.Flags().StringVar(&email, "email", "", "User email")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = issue.MarkFlagRequired("email")

	cmd.AddCommand(issue)
	return cmd
}
