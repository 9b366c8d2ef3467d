// karmactl is a command-line exercise of the client core against a running
// backend: it wires the cache, queue, stats service and change feed exactly
// the way the app shell does, then runs one command.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vikkirkobane/karma-club-sub000/internal/badges"
	"github.com/vikkirkobane/karma-club-sub000/internal/cache"
	"github.com/vikkirkobane/karma-club-sub000/internal/catalog"
	"github.com/vikkirkobane/karma-club-sub000/internal/config"
	"github.com/vikkirkobane/karma-club-sub000/internal/connectivity"
	"github.com/vikkirkobane/karma-club-sub000/internal/likes"
	"github.com/vikkirkobane/karma-club-sub000/internal/models"
	"github.com/vikkirkobane/karma-club-sub000/internal/realtime"
	"github.com/vikkirkobane/karma-club-sub000/internal/remote"
	"github.com/vikkirkobane/karma-club-sub000/internal/stats"
	"github.com/vikkirkobane/karma-club-sub000/pkg/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Env)

	if len(os.Args) < 2 {
		fmt.Println("usage: karmactl <stats|complete ACTIVITY_ID [description]|like POST_ID|watch>")
		os.Exit(1)
	}
	if cfg.UserID == "" {
		logger.Fatal().Msg("USER_ID is not configured")
	}

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		var err error
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load catalog file")
		}
	}

	var store cache.Store
	if cfg.RedisAddr != "" {
		r := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, "karma")
		if err := r.Ping(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("redis cache unreachable")
		}
		store = r
	} else {
		s, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open local cache")
		}
		store = s
	}

	client := remote.NewClient(cfg.BackendURL)
	monitor := connectivity.NewMonitor(true)
	svc := stats.New(stats.Config{
		UserID:    cfg.UserID,
		Catalog:   cat,
		BadgeDefs: badges.Defaults(),
		Remote:    client,
		Store:     store,
		Online:    monitor.Online,
		OnDrop: func(action models.QueuedAction, err error) {
			fmt.Printf("! pending action %s could not be delivered: %v\n", action.Kind, err)
		},
		Log: logger.With("stats"),
	})
	svc.Queue().BindConnectivity(context.Background(), monitor)

	ctx := context.Background()
	switch os.Args[1] {
	case "stats":
		runStats(ctx, svc)
	case "complete":
		if len(os.Args) < 3 {
			logger.Fatal().Msg("complete requires an activity id")
		}
		desc := strings.Join(os.Args[3:], " ")
		runComplete(ctx, svc, os.Args[2], desc)
	case "like":
		if len(os.Args) < 3 {
			logger.Fatal().Msg("like requires a post id")
		}
		runLike(ctx, client, cfg.UserID, os.Args[2])
	case "watch":
		runWatch(ctx, cfg.RealtimeURL, cfg.UserID, svc)
	default:
		logger.Fatal().Str("command", os.Args[1]).Msg("unknown command")
	}
}

func runStats(ctx context.Context, svc *stats.Service) {
	if _, err := svc.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("refresh failed, showing cached stats")
	}
	printStats(svc)
}

func runComplete(ctx context.Context, svc *stats.Service, activityID, description string) {
	res, err := svc.CompleteActivity(ctx, activityID, description, "", 0)
	if err != nil {
		logger.Fatal().Err(err).Msg("submission failed")
	}
	if res.Deferred {
		fmt.Println("offline: submission queued for replay")
	}
	for _, b := range res.NewBadges {
		fmt.Printf("new badge earned: %s\n", b)
	}
	printStats(svc)
}

func runLike(ctx context.Context, client *remote.Client, userID, postID string) {
	render := func(s models.PostLikeState) {
		if s.Liked {
			fmt.Printf("liked (%d likes)\n", s.LikeCount)
		} else {
			fmt.Printf("unliked (%d likes)\n", s.LikeCount)
		}
	}
	if _, err := likes.Toggle(ctx, client, userID, postID, models.PostLikeState{}, render); err != nil {
		logger.Fatal().Err(err).Msg("like toggle failed")
	}
}

func runWatch(ctx context.Context, realtimeURL, userID string, svc *stats.Service) {
	sub := realtime.NewSubscriber(realtimeURL, userID, func(ctx context.Context) error {
		_, err := svc.Refresh(ctx)
		if err == nil {
			printStats(svc)
		}
		return err
	}, logger.With("realtime"))
	sub.Run(ctx)
	defer sub.Close()

	fmt.Println("watching change feed, ctrl-c to stop")
	for {
		time.Sleep(time.Hour)
	}
}

func printStats(svc *stats.Service) {
	st := svc.Snapshot()
	rep := svc.Report()
	fmt.Printf("tier %s: %d points, %d activities, %d-day streak\n",
		st.CurrentTier, st.Points, st.TotalActivities, st.StreakDays)
	for _, cp := range rep.Categories {
		fmt.Printf("  %-11s %3d/%3d (%d%%)\n", cp.Category, cp.Completed, cp.Threshold, cp.Percent)
	}
	if badges := svc.Badges(); len(badges) > 0 {
		fmt.Printf("badges: %s\n", strings.Join(badges, ", "))
	}
}
