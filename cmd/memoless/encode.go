package main

import (
	"github.com/urfave/cli/v2"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/core/domain"
)

var encode = cli.Command{
	Name:  "encode",
	Usage: "preview the reference-encoded amount for a deposit, offline",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "deposit asset, ie. BTC.BTC",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "amount typed by the user",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "reference",
			Usage:    "reference ID assigned by the network",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "usd",
			Usage: "treat the amount as USD instead of asset units",
		},
		&cli.Float64Flag{
			Name:  "price",
			Usage: "asset price in USD, required with --usd",
		},
	},
	Action: encodeAction,
}

func encodeAction(ctx *cli.Context) error {
	asset, err := domain.ParseAssetID(ctx.String("asset"))
	if err != nil {
		return err
	}

	decimals, err := asset.Decimals()
	if err != nil {
		return err
	}

	mode := domain.InputModeAsset
	if ctx.Bool("usd") {
		if ctx.Float64("price") <= 0 {
			return &invalidUsageError{ctx, "encode"}
		}
		mode = domain.InputModeUSD
	}

	enc := domain.Encode(
		ctx.String("amount"), mode,
		ctx.String("reference"), decimals,
		ctx.Float64("price"),
	)

	printJSON(enc)

	return nil
}
