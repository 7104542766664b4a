// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shabaraba/holecard/internal/deck"
	"github.com/shabaraba/holecard/internal/totp"
)

func newTOTPCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "totp",
		Short: "Manage TOTP seeds stored as opaque cards",
	}

	cmd.AddCommand(
		newTOTPAddCommand(app),
		newTOTPCodeCommand(app),
	)
	return cmd
}

func newTOTPAddCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <service> <base32-seed>",
		Short: "Store a TOTP seed for a service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Ctx.CardSet(deck.TOTPHandName, args[0], args[1])
		},
	}
}

func newTOTPCodeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "code <service>",
		Short: "Derive the current TOTP code for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := app.Ctx.CardGet(deck.TOTPHandName, args[0])
			if err != nil {
				return err
			}
			now := time.Now()
			code, err := totp.Code(seed, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (valid for %ds)\n", code, totp.SecondsRemaining(now))
			return nil
		},
	}
}
