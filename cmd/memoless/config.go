package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/config"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/infrastructure/thornode"
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "print the effective configuration",
	Action: configAction,
}

func configAction(ctx *cli.Context) error {
	apiURL := config.GetString(config.ThornodeURLKey)
	if apiURL == "" {
		apiURL = thornode.MainnetURL
		if config.IsStagenet() {
			apiURL = thornode.StagenetURL
		}
	}

	fmt.Println(config.NetworkKey + ": " + config.GetString(config.NetworkKey))
	fmt.Println(config.ThornodeURLKey + ": " + apiURL)
	fmt.Println(config.DatadirKey + ": " + config.GetDatadir())
	fmt.Printf("%s: %d\n", config.LogLevelKey, config.GetInt(config.LogLevelKey))
	fmt.Printf("%s: %s\n", config.TrackIntervalKey, config.GetDuration(config.TrackIntervalKey))
	fmt.Printf("%s: %d\n", config.TrackMaxAttemptsKey, config.GetInt(config.TrackMaxAttemptsKey))
	fmt.Printf("%s: %s\n", config.AwaitBudgetKey, config.GetDuration(config.AwaitBudgetKey))
	fmt.Printf("%s: %t\n", config.NoDbKey, config.GetBool(config.NoDbKey))

	return nil
}
