package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wojp/backoffice/internal/audit"
	"github.com/wojp/backoffice/internal/config"
	"github.com/wojp/backoffice/internal/server"
	"github.com/wojp/backoffice/internal/service"
	"github.com/wojp/backoffice/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the panel API server",
		Long:  "Start the HTTP server that backs the admin panel and the public OAuth login flow.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP listen port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP listen host (overrides config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Development mode (verbose logging)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	logLevel := slog.LevelInfo
	if dev || cfg.Logging.Level == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("store initialized", "driver", cfg.Database.Driver)

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = viper.GetString("auth.jwt_secret")
	}
	if jwtSecret == "" {
		logger.Warn("auth.jwt_secret not configured - all sessions will be rejected")
	}

	authSvc := service.NewAuthService(st, jwtSecret, cfg.AdminSessionTTL(), cfg.UserSessionTTL())
	recorder := audit.NewRecorder(st, logger)

	hasAdmin, err := st.HasAnyAdmin(context.Background())
	if err != nil {
		logger.Warn("failed to check for admin accounts", "error", err)
	}
	if !hasAdmin {
		logger.Warn("no admin account found - run: backoffice admin create")
	}

	srv := server.New(cfg, st, authSvc, recorder, logger)
	return srv.ListenAndServe()
}

// loadConfig reads the YAML config file when one is present, otherwise the
// defaults, layered with viper env overrides. A config file that exists but
// does not parse is an error, not a fallback: running production on silent
// defaults is worse than failing to start.
func loadConfig() (config.Config, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		applyEnvOverrides(&cfg)
		return cfg, nil
	}
	cfg := config.Default()
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets WOJP_* environment variables win over the file for
// the secrets that should not live on disk.
func applyEnvOverrides(cfg *config.Config) {
	if v := viper.GetString("environment"); v != "" {
		cfg.Environment = v
	}
	if v := viper.GetString("auth.jwt_secret"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := viper.GetString("database.driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v := viper.GetString("database.dsn"); v != "" {
		cfg.Database.DSN = v
	}
}

func openStore(cfg config.Config) (*store.Store, error) {
	return store.Open(cfg.Database.Driver, cfg.Database.DSN)
}
