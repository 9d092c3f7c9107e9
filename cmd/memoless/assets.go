package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/application"
)

var assets = cli.Command{
	Name:   "assets",
	Usage:  "list assets eligible for a memoless deposit",
	Action: assetsAction,
}

func assetsAction(ctx *cli.Context) error {
	client, err := getThornodeClient()
	if err != nil {
		return err
	}

	svc, err := application.NewAssetService(client)
	if err != nil {
		return err
	}

	list, err := svc.ListDepositAssets(context.Background())
	if err != nil {
		return err
	}

	printJSON(list)

	return nil
}
