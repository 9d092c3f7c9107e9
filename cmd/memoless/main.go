package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/config"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/ports"
	dbbadger "github.com/familiarcow/rune-tools-desktop-sub003/internal/infrastructure/storage/db/badger"
	"github.com/familiarcow/rune-tools-desktop-sub003/internal/infrastructure/thornode"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "memoless CLI"
	app.Usage = "Command line interface for memoless THORChain deposits"
	app.Before = func(ctx *cli.Context) error {
		if err := config.InitConfig(); err != nil {
			return err
		}
		log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		return nil
	}
	app.Commands = append(
		app.Commands,
		&assets,
		&inbound,
		&encode,
		&register,
		&track,
		&status,
		&configCmd,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getThornodeClient() (ports.ThornodeClient, error) {
	apiURL := config.GetString(config.ThornodeURLKey)
	if apiURL == "" {
		apiURL = thornode.MainnetURL
		if config.IsStagenet() {
			apiURL = thornode.StagenetURL
		}
	}
	return thornode.NewService(apiURL)
}

func getRepoManager() (ports.RepoManager, func(), error) {
	if config.GetBool(config.NoDbKey) {
		return nil, func() {}, nil
	}
	manager, err := dbbadger.NewRepoManager(config.GetDbDir(), nil)
	if err != nil {
		return nil, nil, err
	}
	return manager, manager.Close, nil
}

func printJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to encode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[memoless] %v\n", err)
	}
	os.Exit(1)
}
