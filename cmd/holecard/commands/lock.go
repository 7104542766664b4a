// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLockCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the active deck's session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ctx.Lock(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Locked.")
			return nil
		},
	}
}
