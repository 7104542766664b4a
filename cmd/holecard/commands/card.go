// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newCardCommand(app *App) *cobra.Command {
	card := &cobra.Command{
		Use:   "card",
		Short: "Get, set, and delete individual cards",
	}

	card.AddCommand(
		newCardGetCommand(app),
		newCardSetCommand(app),
		newCardDeleteCommand(app),
	)
	return card
}

func newCardGetCommand(app *App) *cobra.Command {
	var clip bool

	cmd := &cobra.Command{
		Use:   "get <hand> <key>",
		Short: "Retrieve a card's value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := app.Ctx.CardGet(args[0], args[1])
			if err != nil {
				return err
			}
			if clip {
				if err := clipboard.WriteAll(value); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clip, "clip", false, "copy the value to the clipboard instead of printing it")
	return cmd
}

func newCardSetCommand(app *App) *cobra.Command {
	var fromPrompt bool

	cmd := &cobra.Command{
		Use:   "set <hand> <key> [value]",
		Short: "Set a card's value, creating its hand if necessary",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 3 {
				value = args[2]
			} else {
				fromPrompt = true
			}
			if fromPrompt {
				field := huh.NewInput().Title(fmt.Sprintf("Value for %s/%s", args[0], args[1])).EchoMode(huh.EchoModePassword).Value(&value)
				if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
					return err
				}
			}
			return app.Ctx.CardSet(args[0], args[1], value)
		},
	}
	return cmd
}

func newCardDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <hand> <key>",
		Short: "Delete a single card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Ctx.CardDelete(args[0], args[1])
		},
	}
}
