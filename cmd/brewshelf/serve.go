package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brewshelf/brewshelf/internal/config"
	"github.com/brewshelf/brewshelf/internal/db"
	"github.com/brewshelf/brewshelf/internal/identity"
	"github.com/brewshelf/brewshelf/internal/notify"
	"github.com/brewshelf/brewshelf/internal/session"
	"github.com/brewshelf/brewshelf/internal/store"
	"github.com/brewshelf/brewshelf/internal/tracker"
	"github.com/brewshelf/brewshelf/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Brewshelf API server",
		Long:  "Launches the JSON API with the background sweep that flips conditioned brews to ready.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "brewshelf.yaml", "path to Brewshelf config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.HTTP.Port = port
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	observer := session.New()
	var provider identity.Provider
	if cfg.Identity.URL != "" {
		provider = identity.NewClient(cfg.Identity.URL, cfg.Identity.APIKey)
	} else {
		fmt.Fprintln(out, "No identity provider configured — running anonymous-only")
	}

	tr, err := tracker.New(tracker.Opts{
		Local:    store.NewLocal(cfg.LocalStore.Path),
		Remote:   store.NewRemote(gormDB),
		Observer: observer,
		Notifier: buildNotifier(cfg.Notify),
	})
	if err != nil {
		return err
	}
	if err := tr.Refresh(cmd.Context()); err != nil {
		return err
	}

	sweeper, err := tracker.NewSweeper(tr)
	if err != nil {
		return err
	}
	sweeper.Start()
	defer sweeper.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return web.Start(ctx, web.StartOpts{
		Tracker:  tr,
		Observer: observer,
		Provider: provider,
		Port:     cfg.HTTP.Port,
		Out:      out,
	})
}

// buildNotifier assembles the configured brew-ready notifiers. With none
// configured the tracker simply skips notification.
func buildNotifier(cfg config.NotifyConfig) notify.Notifier {
	var multi notify.Multi
	if cfg.Slack.Token != "" {
		multi = append(multi, notify.NewSlack(cfg.Slack.Token, cfg.Slack.Channel))
	}
	if cfg.Discord.Token != "" {
		d, err := notify.NewDiscord(cfg.Discord.Token, cfg.Discord.Channel)
		if err != nil {
			log.Printf("serve: discord notifier disabled: %v", err)
		} else {
			multi = append(multi, d)
		}
	}
	if len(multi) == 0 {
		return nil
	}
	return multi
}
