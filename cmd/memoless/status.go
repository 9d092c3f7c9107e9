package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/familiarcow/rune-tools-desktop-sub003/internal/config"
)

var status = cli.Command{
	Name:   "status",
	Usage:  "list registrations and tracked deposits from the local history",
	Action: statusAction,
}

func statusAction(ctx *cli.Context) error {
	if config.GetBool(config.NoDbKey) {
		return errors.New("local history is disabled, unset " + config.NoDbKey)
	}

	repoManager, closeRepo, err := getRepoManager()
	if err != nil {
		return err
	}
	defer closeRepo()

	registrations, err := repoManager.RegistrationRepository().
		GetAllRegistrations(context.Background())
	if err != nil {
		return err
	}
	deposits, err := repoManager.DepositRepository().
		GetAllDeposits(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("registrations:")
	printJSON(registrations)
	fmt.Println("deposits:")
	printJSON(deposits)

	return nil
}
