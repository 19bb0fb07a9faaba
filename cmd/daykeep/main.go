package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/server"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/db"
)

const (
	greetingBanner = `daykeep - your day, kept.`
)

var (
	instanceProfile *profile.Profile

	rootCmd = &cobra.Command{
		Use:   "daykeep",
		Short: "A personal assistant that keeps your schedule, tasks, and notes in one place",
		Run: func(_ *cobra.Command, _ []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				slog.Error("failed to create db driver", "error", err)
				return
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				slog.Error("failed to migrate database", "error", err)
				return
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				cancel()
				slog.Error("failed to create server", "error", err)
				return
			}

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-c
				slog.Info("received signal, shutting down", "signal", sig.String())
				s.Shutdown(ctx)
				cancel()
			}()

			printGreetings(instanceProfile)

			if err := s.Start(ctx); err != nil {
				if ctx.Err() == nil {
					slog.Error("failed to start server", "error", err)
					cancel()
				}
			}

			<-ctx.Done()
		},
	}
)

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")

	if err := viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("addr", rootCmd.PersistentFlags().Lookup("addr")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("driver", rootCmd.PersistentFlags().Lookup("driver")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("dsn", rootCmd.PersistentFlags().Lookup("dsn")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("daykeep")
	viper.AutomaticEnv()

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	instanceProfile = &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: "0.1.0",
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
}

func printGreetings(p *profile.Profile) {
	fmt.Println(greetingBanner)
	fmt.Printf("version %s has been started on port %d in %s mode\n", p.Version, p.Port, p.Mode)
	if !p.IsAIEnabled() {
		slog.Warn("no AI API key configured, chat requests will fail until DAYKEEP_AI_API_KEY is set")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
