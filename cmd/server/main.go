package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"junglecoach/internal/cache"
	"junglecoach/internal/config"
	"junglecoach/internal/dashboard"
	"junglecoach/internal/discord"
	"junglecoach/internal/gamesync"
	"junglecoach/internal/notion"
	"junglecoach/internal/riot"
	"junglecoach/internal/scraper"
	"junglecoach/internal/server"
)

const shutdownGrace = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cache.New(cfg.RedisURL, log)

	riotClient, err := riot.NewClient(cfg.RiotAPIKey, cfg.Platform, store, log)
	if err != nil {
		log.Fatalf("Failed to create Riot client: %v", err)
	}

	log.Infof("Resolving tracked player %s...", cfg.RiotID())
	jungleScraper, err := scraper.New(ctx, riotClient, cfg.GameName, cfg.TagLine, log)
	if err != nil {
		log.Fatalf("Failed to resolve tracked player: %v", err)
	}

	notionClient := notion.NewClient(cfg.NotionToken, log)
	games := notion.NewGamesStore(notionClient, cfg.GamesDatabaseID)
	sessions := notion.NewSessionsStore(notionClient, cfg.SessionsDatabase)

	alerts := discord.NewNotifier(cfg.DiscordWebhookURL, log)
	if !alerts.Enabled() {
		log.Info("Discord webhook not configured, coaching alerts disabled")
	}

	syncer := gamesync.New(jungleScraper, games, riotClient, alerts, log)
	dash := dashboard.NewService(jungleScraper, games, riotClient, dashboard.Player{
		PUUID:  jungleScraper.PUUID(),
		RiotID: cfg.RiotID(),
	}, log)

	api := server.New(dash, sessions, syncer, riotClient, games, cfg.WebhookSecret, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown error: %v", err)
		os.Exit(1)
	}
}
