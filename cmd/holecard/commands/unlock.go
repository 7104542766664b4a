// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newUnlockCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Unlock the active deck's session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			field := huh.NewInput().Title("Master password").EchoMode(huh.EchoModePassword).Value(&password)
			if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
				return err
			}

			if err := app.Ctx.Unlock(password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Unlocked.")
			return nil
		},
	}
	return cmd
}
