// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newChangePasswordCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "change-password",
		Short: "Re-encrypt the active deck under a new master password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var oldPassword, newPassword, confirm string
			fields := huh.NewGroup(
				huh.NewInput().Title("Current master password").EchoMode(huh.EchoModePassword).Value(&oldPassword),
				huh.NewInput().Title("New master password").EchoMode(huh.EchoModePassword).Value(&newPassword),
				huh.NewInput().Title("Confirm new master password").EchoMode(huh.EchoModePassword).Value(&confirm),
			)
			if err := huh.NewForm(fields).Run(); err != nil {
				return err
			}
			if newPassword != confirm {
				return fmt.Errorf("new passwords did not match")
			}

			if err := app.Ctx.ChangeMasterPassword(oldPassword, newPassword); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Master password changed.")
			return nil
		},
	}
}
