// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeckCommand(app *App) *cobra.Command {
	deck := &cobra.Command{
		Use:   "deck",
		Short: "Manage the set of registered decks",
	}

	deck.AddCommand(
		newDeckAddCommand(app),
		newDeckRemoveCommand(app),
		newDeckListCommand(app),
		newDeckUseCommand(app),
	)
	return deck
}

func newDeckAddCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register an already-initialized deck file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Registry.Add(args[0], args[1])
		},
	}
}

func newDeckRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a deck from the registry (the file itself is left untouched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Registry.Remove(args[0])
		},
	}
}

func newDeckListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Registry.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				marker := " "
				if e.Active {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-20s %s\n", marker, e.Name, e.Path)
			}
			return nil
		},
	}
}

func newDeckUseCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make the named deck active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Registry.SetActive(args[0])
		},
	}
}
