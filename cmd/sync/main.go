package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"junglecoach/internal/cache"
	"junglecoach/internal/config"
	"junglecoach/internal/discord"
	"junglecoach/internal/gamesync"
	"junglecoach/internal/notion"
	"junglecoach/internal/riot"
	"junglecoach/internal/scraper"
)

func main() {
	count := flag.Int("count", 10, "Number of recent games to sync")
	datesOnly := flag.Bool("dates-only", false, "Skip the sync, only backfill missing game dates")
	backfill := flag.Bool("backfill", false, "Also backfill missing game dates after syncing")
	flag.Parse()

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

	notionClient := notion.NewClient(cfg.NotionToken, log)
	games := notion.NewGamesStore(notionClient, cfg.GamesDatabaseID)
	alerts := discord.NewNotifier(cfg.DiscordWebhookURL, log)

	startTime := time.Now()

	var syncer *gamesync.Syncer
	if *datesOnly {
		// Date backfill re-fetches matches by ID, no player resolution needed.
		syncer = gamesync.New(nil, games, riotClient, alerts, log)
	} else {
		fmt.Printf("Resolving tracked player %s...\n", cfg.RiotID())
		jungleScraper, err := scraper.New(ctx, riotClient, cfg.GameName, cfg.TagLine, log)
		if err != nil {
			log.Fatalf("Failed to resolve tracked player: %v", err)
		}
		syncer = gamesync.New(jungleScraper, games, riotClient, alerts, log)

		report, err := syncer.SyncRecent(ctx, *count)
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		fmt.Printf("\n=== Sync Complete ===\n")
		fmt.Printf("Jungle games found: %d\n", report.Found)
		fmt.Printf("Created: %d, skipped: %d, errors: %d\n", report.Created, report.Skipped, report.Errors)
	}

	if *datesOnly || *backfill {
		report, err := syncer.BackfillDates(ctx)
		if err != nil {
			log.Fatalf("Date backfill failed: %v", err)
		}
		fmt.Printf("\n=== Backfill Complete ===\n")
		fmt.Printf("Records missing dates: %d\n", report.Missing)
		fmt.Printf("Updated: %d, errors: %d\n", report.Updated, report.Errors)
	}

	fmt.Printf("\nTotal time: %s\n", time.Since(startTime).Round(time.Second))
}
