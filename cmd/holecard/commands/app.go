// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package commands wires Holecard's cobra command tree onto a
// [deckctx.Context] façade. Each command file exposes a newXCommand
// constructor that [NewRootCommand] adds to the root command, following
// the command-per-file layout the retrieved cobra examples use.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/shabaraba/holecard/internal/config"
	"github.com/shabaraba/holecard/internal/deckctx"
	"github.com/shabaraba/holecard/internal/logger"
	"github.com/shabaraba/holecard/internal/registry"
)

// App bundles everything a command needs to do its work: the deck
// context façade, the deck registry, the merged configuration, and a
// logger. It is built once in cmd/holecard/main.go and threaded into
// every subcommand.
type App struct {
	Ctx      *deckctx.Context
	Registry *registry.Registry
	Config   config.Config
	Logger   *logger.Logger
}

// NewRootCommand builds the full `holecard` command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "holecard",
		Short:         "A local, single-user secret manager",
		Long:          "Holecard stores secrets in an encrypted deck file, unlocked by a master password and a secret key held in your OS credential store.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug().Str("command", cmd.Name()).Msg("dispatching command")
			return nil
		},
	}

	root.AddCommand(
		newInitCommand(app),
		newUnlockCommand(app),
		newLockCommand(app),
		newStatusCommand(app),
		newHandCommand(app),
		newCardCommand(app),
		newExportCommand(app),
		newImportCommand(app),
		newDeckCommand(app),
		newTOTPCommand(app),
		newChangePasswordCommand(app),
	)

	return root
}
