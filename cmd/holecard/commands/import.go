// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newImportCommand(app *App) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "import <in-path>",
		Short: "Merge an export file's contents into the active deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			field := huh.NewInput().Title("Export password").EchoMode(huh.EchoModePassword).Value(&password)
			if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
				return err
			}

			if err := app.Ctx.Import(args[0], password, overwrite); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Imported.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing cards on key collision instead of skipping them")
	return cmd
}
