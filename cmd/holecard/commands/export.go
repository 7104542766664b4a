// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newExportCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <out-path>",
		Short: "Encrypt the active deck's contents under a separate export password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			field := huh.NewInput().Title("Export password").EchoMode(huh.EchoModePassword).Value(&password)
			if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
				return err
			}

			if err := app.Ctx.Export(args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s.\n", args[0])
			return nil
		},
	}
}
