package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-gin-user-admin/internal/app"
	"go-gin-user-admin/internal/core/server"
	"go-gin-user-admin/internal/service"
	"go-gin-user-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "admin",
		Short:         "User administration service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", os.Getenv("CONFIG_PATH"), "config file (yaml)")
	root.AddCommand(serveCmd(&cfgPath), createAdminCmd(&cfgPath))
	return root
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP server (/admin/v1)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			hc := a.Cfg.App.Admin
			srv := server.BuildServer(hc, router.NewAdminEngine(a.Deps), a.Log)

			// 启动前打印可点击地址
			host4human := hc.Host
			if host4human == "" || host4human == "0.0.0.0" {
				host4human = "127.0.0.1"
			}
			baseURL := "http://" + server.Addr(host4human, hc.Port)
			a.Log.Info("admin api starting",
				zap.String("open", baseURL),
				zap.String("health", baseURL+"/health"),
				zap.String("admin_v1", baseURL+"/admin/v1"),
			)
			if err := server.Run(ctx, srv, a.Log); err != nil {
				a.Log.Error("admin api stopped with error", zap.Error(err))
				return err
			}
			a.Log.Info("admin api stopped gracefully")
			return nil
		},
	}
}

func createAdminCmd(cfgPath *string) *cobra.Command {
	var in service.CreateInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account directly in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			a, err := app.New(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Users.CreateAdmin(ctx, in)
			if ve, ok := service.IsValidation(err); ok {
				for f, msg := range ve.Fields {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f, msg)
				}
				return fmt.Errorf("invalid admin input")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin created: %s <%s>\n", u.ID, u.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "admin email")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
