// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active deck and its session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Ctx.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "active deck: %s\n", st.ActiveDeck)
			if st.Locked {
				fmt.Fprintln(out, "session:     locked")
				return nil
			}
			fmt.Fprintln(out, "session:     unlocked")
			fmt.Fprintf(out, "expires at:  %s\n", st.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
