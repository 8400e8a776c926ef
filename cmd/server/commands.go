package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/care-coord/internal/adapter"
	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/handler"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/internal/server"
	"github.com/MKhiriev/care-coord/internal/service"
	"github.com/MKhiriev/care-coord/internal/store"
	"github.com/MKhiriev/care-coord/models"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	buildInfo models.AppBuildInfo
	flagCfg   *config.StructuredConfig
	cfg       *config.StructuredConfig
	log       *logger.Logger
}

func newRootCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	a := &app{buildInfo: buildInfo}

	cmd := &cobra.Command{
		Use:   "carecoord",
		Short: "Care coordination authorization and credential service",
		Long: `carecoord issues access tokens to care staff and manages their accounts.

Office workers administer users over a REST API; ground workers only sign in
and rotate their own password.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.Name())
		},
	}

	a.flagCfg = config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newSeedAdminCmd(a))
	cmd.AddCommand(newVersionCmd(a))

	return cmd
}

func (a *app) loadConfig(command string) error {
	a.log = logger.NewLogger("carecoord-" + command)

	cfg, err := config.GetStructuredConfig(a.flagCfg)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		return err
	}
	if cfg.App.EphemeralSignKey {
		a.log.Warn().Msg("no token sign key configured: using a random key, tokens will not survive a restart")
	}

	a.log.Debug().
		Str("env", cfg.App.Env).
		Str("address", cfg.Server.HTTPAddress).
		Dur("token_duration", cfg.App.TokenDuration).
		Bool("redis", cfg.Storage.Redis.Address != "").
		Bool("broker", cfg.Broker.AMQPURL != "").
		Msg("received configs")

	a.cfg = cfg
	return nil
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, seed the bootstrap admin and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	storages, err := store.NewStorages(ctx, a.cfg.Storage, a.log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	if err = storages.Migrate(ctx); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	publisher, err := a.newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	services := service.NewServices(storages, publisher, *a.cfg, a.buildInfo, a.log)

	if a.cfg.App.BootstrapAdmin.Enabled() {
		if _, _, err = services.UserService.SeedAdmin(ctx, a.cfg.App.BootstrapAdmin); err != nil {
			return fmt.Errorf("error seeding bootstrap admin: %w", err)
		}
	}

	handlers, err := handler.NewHandlers(services, a.cfg.Server, a.log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, a.cfg.Server, a.log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	a.log.Info().Str("version", a.buildInfo.BuildVersion()).Msg("starting server")
	return srv.RunServer()
}

// newPublisher connects to the broker when one is configured. Without a
// broker lifecycle events are dropped.
func (a *app) newPublisher() (adapter.EventPublisher, error) {
	if a.cfg.Broker.AMQPURL == "" {
		a.log.Info().Msg("no message broker configured: lifecycle events are not published")
		return adapter.NewNopPublisher(), nil
	}

	publisher, err := adapter.NewAMQPPublisher(a.cfg.Broker, a.log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to message broker: %w", err)
	}
	return publisher, nil
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			storages, err := store.NewStorages(ctx, a.cfg.Storage, a.log)
			if err != nil {
				return fmt.Errorf("error creating storages: %w", err)
			}
			defer storages.Close()

			if err = storages.Migrate(ctx); err != nil {
				return fmt.Errorf("error applying migrations: %w", err)
			}

			a.log.Info().Msg("migrations applied")
			return nil
		},
	}
}

// seedAdminFlags override the bootstrap admin read from the configuration.
type seedAdminFlags struct {
	email     string
	password  string
	firstName string
	lastName  string
}

func (f seedAdminFlags) apply(admin config.BootstrapAdmin) config.BootstrapAdmin {
	if f.email != "" {
		admin.Email = f.email
	}
	if f.password != "" {
		admin.Password = f.password
	}
	if f.firstName != "" {
		admin.FirstName = f.firstName
	}
	if f.lastName != "" {
		admin.LastName = f.lastName
	}
	return admin
}

func newSeedAdminCmd(a *app) *cobra.Command {
	var flags seedAdminFlags

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the administrator account if it does not exist",
		Example: `  carecoord seed-admin --email admin@carecompany.com --password 'S3cure!pass'
  APP_BOOTSTRAP_ADMIN_EMAIL=admin@carecompany.com APP_BOOTSTRAP_ADMIN_PASSWORD=... carecoord seed-admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			admin := flags.apply(a.cfg.App.BootstrapAdmin)

			storages, err := store.NewStorages(ctx, a.cfg.Storage, a.log)
			if err != nil {
				return fmt.Errorf("error creating storages: %w", err)
			}
			defer storages.Close()

			if err = storages.Migrate(ctx); err != nil {
				return fmt.Errorf("error applying migrations: %w", err)
			}

			services := service.NewServices(storages, adapter.NewNopPublisher(), *a.cfg, a.buildInfo, a.log)
			user, created, err := services.UserService.SeedAdmin(ctx, admin)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %d)\n", user.Email, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists (id %d), nothing to do\n", user.Email, user.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.email, "email", "", "Admin email (default APP_BOOTSTRAP_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&flags.password, "password", "", "Admin password (default APP_BOOTSTRAP_ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&flags.firstName, "first-name", "", "Admin first name")
	cmd.Flags().StringVar(&flags.lastName, "last-name", "", "Admin last name")

	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\n", a.buildInfo.BuildVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s\n", a.buildInfo.BuildDate())
			fmt.Fprintf(cmd.OutOrStdout(), "Build commit: %s\n", a.buildInfo.BuildCommit())
		},
	}
}
