package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MikeMC777/foodorders/internal/config"
	"github.com/MikeMC777/foodorders/internal/seed"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "order-service",
	Short:        "Food ordering backend: carts, checkout and order tracking",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return withApp(ctx, func(a *app) error { return serve(ctx, a) })
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the store with demo restaurants, menus and customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := seed.DefaultOptions()
		flags := cmd.Flags()
		opts.Restaurants, _ = flags.GetInt("restaurants")
		opts.ItemsPerRestaurant, _ = flags.GetInt("items")
		opts.Customers, _ = flags.GetInt("customers")
		opts.Password, _ = flags.GetString("password")
		opts.Progress = cmd.ErrOrStderr()

		return withApp(cmd.Context(), func(a *app) error {
			res, err := seed.Run(cmd.Context(), a.users, a.menus, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\npassword for every account: %s\n", opts.Password)
			for _, e := range res.OwnerEmails {
				fmt.Fprintf(out, "owner    %s\n", e)
			}
			for _, e := range res.CustomerEmails {
				fmt.Fprintf(out, "customer %s\n", e)
			}
			return nil
		})
	},
}

var cleanCartsCmd = &cobra.Command{
	Use:   "clean-carts",
	Short: "Delete carts past their expiry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			n, err := a.carts.CleanExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired carts\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml); env vars override it")

	d := seed.DefaultOptions()
	seedCmd.Flags().Int("restaurants", d.Restaurants, "number of owners, one restaurant each")
	seedCmd.Flags().Int("items", d.ItemsPerRestaurant, "menu items per restaurant")
	seedCmd.Flags().Int("customers", d.Customers, "number of customers, one address each")
	seedCmd.Flags().String("password", d.Password, "password of every seeded account")

	rootCmd.AddCommand(serveCmd, seedCmd, cleanCartsCmd)
}

func withApp(ctx context.Context, fn func(*app) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("[app] close: %v", err)
		}
	}()
	return fn(a)
}
