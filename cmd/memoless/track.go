package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/config"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/application"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
)

var track = cli.Command{
	Name:  "track",
	Usage: "follow a deposit through the observation pipeline",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "hash",
			Usage:    "transaction hash of the deposit",
			Required: true,
		},
	},
	Action: trackAction,
}

func trackAction(ctx *cli.Context) error {
	client, err := getThornodeClient()
	if err != nil {
		return err
	}
	repoManager, closeRepo, err := getRepoManager()
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := application.NewTrackerService(application.TrackerServiceOpts{
		Client:      client,
		RepoManager: repoManager,
		Interval:    config.GetDuration(config.TrackIntervalKey),
		MaxAttempts: config.GetInt(config.TrackMaxAttemptsKey),
	})
	if err != nil {
		return err
	}

	appCtx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	snapshots, err := svc.Track(appCtx, strings.ToUpper(ctx.String("hash")))
	if err != nil {
		return err
	}

	lastStage := ""
	for snapshot := range snapshots {
		stage := snapshot.CurrentStage()
		if stage != lastStage {
			fmt.Printf("stage: %s\n", stage)
			lastStage = stage
		}
		if snapshot.Status != domain.DepositStatusPolling {
			fmt.Printf("status: %s after %d polls\n", snapshot.Status, snapshot.Attempts)
			printJSON(snapshot)
		}
	}

	return nil
}
