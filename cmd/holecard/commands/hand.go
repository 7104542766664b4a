// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newHandCommand(app *App) *cobra.Command {
	hand := &cobra.Command{
		Use:   "hand",
		Short: "List, inspect, and delete hands in the active deck",
	}

	hand.AddCommand(
		newHandListCommand(app),
		newHandGetCommand(app),
		newHandDeleteCommand(app),
	)
	return hand
}

func newHandListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every hand name in the active deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.Ctx.HandList()
			if err != nil {
				return err
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newHandGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <hand>",
		Short: "Print every card key in a hand (values are never printed here)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.Ctx.HandGet(args[0])
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(h.Cards))
			for k := range h.Cards {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newHandDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <hand>",
		Short: "Delete a hand and every card it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Ctx.HandDelete(args[0])
		},
	}
}
