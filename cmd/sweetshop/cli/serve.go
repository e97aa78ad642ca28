package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sweetshop/sweetshop/internal/metrics"
	"github.com/sweetshop/sweetshop/internal/server"
)

const banner = `
  ___                 _     ___ _
 / __|_ __ _____ ___| |_  / __| |_  ___ _ __
 \__ \ V  V / -_) -_)  _| \__ \ ' \/ _ \ '_ \
 |___/\_/\_/\___\___|\__| |___/_||_\___/ .__/
                                       |_|
`

func newServeCmd() *cobra.Command {
	var (
		dev  bool
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Sweet Shop API server",
		Long: `Start the HTTP server. The schema is applied and the configured administrator
account is created on first start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), dev, seed)
		},
	}

	cmd.Flags().IntP("port", "p", 8000, "HTTP listen port")
	cmd.Flags().String("host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (debug logging)")
	cmd.Flags().BoolVar(&seed, "seed", false, "Add the sample sweets before serving")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(ctx context.Context, dev, seed bool) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(settings.Logging, dev)

	fmt.Print(banner)
	fmt.Println()

	if settings.InsecureSecret() {
		logger.Warn("auth.secret_key is the built-in development key; set SWEETSHOP_AUTH_SECRET_KEY before exposing this server")
	}

	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("database ready", "driver", st.Driver())

	svc, err := server.NewServices(st, settings, metrics.New(), logger)
	if err != nil {
		return err
	}
	if err := bootstrapAdmin(ctx, svc.Accounts, settings.Admin, logger); err != nil {
		return err
	}
	if seed {
		if _, err := seedSweets(ctx, st, svc.Catalog, io.Discard); err != nil {
			return fmt.Errorf("seed sweets: %w", err)
		}
	}

	srv := server.New(server.ConfigFromSettings(settings, versionString()), svc, logger)

	host, port := settings.Server.Host, settings.Server.Port
	fmt.Printf("→ Sweet Shop %s\n", versionString())
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	fmt.Printf("→ API:        http://%s:%d/api/v1\n", host, port)
	fmt.Printf("→ OpenAPI:    http://%s:%d/api/v1/openapi.json\n", host, port)
	fmt.Printf("→ Health:     http://%s:%d/health\n", host, port)
	fmt.Printf("→ Database:   %s\n", st.Driver())
	fmt.Println()

	return srv.ListenAndServe(ctx)
}
