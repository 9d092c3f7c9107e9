package main

import (
	"bufio"
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

var register = cli.Command{
	Name:  "register",
	Usage: "register a memo, encode the amount and print the deposit instruction",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "asset",
			Usage:    "deposit asset, ie. BTC.BTC",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "memo",
			Usage:    "the THORChain memo to register, ie. '=:ETH.ETH:0x...'",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "amount to deposit",
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
	Action: registerAction,
}

// promptBroadcaster asks the operator to broadcast the registration
// transaction with their own wallet and paste back the resulting hash.
// Signing stays outside this process.
type promptBroadcaster struct {
	reader *bufio.Reader
}

func (b *promptBroadcaster) BroadcastDeposit(
	ctx context.Context, asset, amount, memo string,
) (string, error) {
	fmt.Printf(
		"broadcast a deposit of %s %s with memo %q using your wallet,\n"+
			"then paste the transaction hash: ", amount, asset, memo,
	)
	line, err := b.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	hash := strings.ToUpper(strings.TrimSpace(line))
	if hash == "" {
		return "", fmt.Errorf("missing transaction hash")
	}
	return hash, nil
}

func registerAction(ctx *cli.Context) error {
	asset, err := domain.ParseAssetID(ctx.String("asset"))
	if err != nil {
		return err
	}
	if ctx.Bool("usd") && ctx.Float64("price") <= 0 {
		return &invalidUsageError{ctx, "register"}
	}

	client, err := getThornodeClient()
	if err != nil {
		return err
	}
	repoManager, closeRepo, err := getRepoManager()
	if err != nil {
		return err
	}
	defer closeRepo()

	awaitOpts := application.DefaultAwaitOpts
	awaitOpts.MaxElapsed = config.GetDuration(config.AwaitBudgetKey)

	svc, err := application.NewRegistrationService(application.RegistrationServiceOpts{
		Client:      client,
		Broadcaster: &promptBroadcaster{reader: bufio.NewReader(os.Stdin)},
		RepoManager: repoManager,
		AwaitOpts:   awaitOpts,
	})
	if err != nil {
		return err
	}

	appCtx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	reg, err := svc.StartRegistration(appCtx, asset, ctx.String("memo"))
	if err != nil {
		return err
	}
	height, err := client.GetLastBlockHeight(appCtx)
	if err != nil {
		return err
	}
	fmt.Printf(
		"reference ID %s assigned, expires in %s\n",
		reg.ReferenceID, reg.TimeRemaining(height),
	)

	mode := domain.InputModeAsset
	if ctx.Bool("usd") {
		mode = domain.InputModeUSD
	}
	enc, err := svc.ConfigureAmount(
		appCtx, ctx.String("amount"), mode, ctx.Float64("price"),
	)
	if err != nil {
		return err
	}
	for _, warning := range enc.Warnings {
		fmt.Println("warning: " + warning)
	}

	instruction, err := svc.BuildDepositInstruction(appCtx)
	if err != nil {
		return err
	}
	printJSON(instruction)

	fmt.Print("enter the deposit transaction hash once sent (blank to skip): ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return err
	}
	hash := strings.ToUpper(strings.TrimSpace(line))
	if hash == "" {
		return nil
	}

	if _, err := svc.AttachDepositHash(appCtx, hash); err != nil {
		return err
	}

	tracker, err := application.NewTrackerService(application.TrackerServiceOpts{
		Client:      client,
		RepoManager: repoManager,
		Interval:    config.GetDuration(config.TrackIntervalKey),
		MaxAttempts: config.GetInt(config.TrackMaxAttemptsKey),
	})
	if err != nil {
		return err
	}
	snapshots, err := svc.FollowDeposit(appCtx, tracker)
	if err != nil {
		return err
	}

	lastStage := ""
	for snapshot := range snapshots {
		if stage := snapshot.CurrentStage(); stage != lastStage {
			fmt.Printf("stage: %s\n", stage)
			lastStage = stage
		}
	}
	fmt.Printf("workflow finished: %s\n", svc.CurrentState().Status)

	return nil
}
