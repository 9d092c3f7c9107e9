package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/application"
)

var inbound = cli.Command{
	Name:  "inbound",
	Usage: "show the inbound address and dust threshold for a chain",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "chain",
			Usage:    "chain identifier, ie. BTC, ETH, GAIA",
			Required: true,
		},
	},
	Action: inboundAction,
}

func inboundAction(ctx *cli.Context) error {
	client, err := getThornodeClient()
	if err != nil {
		return err
	}

	svc, err := application.NewAssetService(client)
	if err != nil {
		return err
	}

	info, err := svc.GetInboundChainInfo(
		context.Background(), strings.ToUpper(ctx.String("chain")),
	)
	if err != nil {
		return err
	}

	printJSON(info)

	return nil
}
