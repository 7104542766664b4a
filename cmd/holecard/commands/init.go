// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newInitCommand(app *App) *cobra.Command {
	var (
		deckPath string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init <deck-name>",
		Short: "Create a new encrypted deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if deckPath == "" {
				deckPath = app.Config.DefaultDeckPath
			}

			var password string
			confirm := ""
			fields := huh.NewGroup(
				huh.NewInput().Title("New master password").EchoMode(huh.EchoModePassword).Value(&password),
				huh.NewInput().Title("Confirm master password").EchoMode(huh.EchoModePassword).Value(&confirm),
			)
			if err := huh.NewForm(fields).Run(); err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords did not match")
			}

			secretKey, err := app.Ctx.Init(name, deckPath, password, force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deck %q created at %s.\n", name, deckPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Secret key (store this somewhere safe, it is NOT recoverable):\n\n  %s\n\n", secretKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&deckPath, "path", "", "deck file path (default: config default-deck-path)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing deck file")
	return cmd
}
