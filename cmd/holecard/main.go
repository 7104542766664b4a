// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shabaraba/holecard/cmd/holecard/commands"
	"github.com/shabaraba/holecard/internal/config"
	"github.com/shabaraba/holecard/internal/credstore"
	"github.com/shabaraba/holecard/internal/deckctx"
	"github.com/shabaraba/holecard/internal/logger"
	"github.com/shabaraba/holecard/internal/registry"
	"github.com/shabaraba/holecard/internal/session"
)

var (
	buildVersion string
	buildCommit  string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "holecard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("cli", zerolog.WarnLevel, true)

	cred := credstore.New()
	sessionDir := config.DefaultSessionDir()
	sess := session.New(cred, func(deckName string) string {
		return filepath.Join(sessionDir, deckName+".session.json")
	}, cfg.SessionTimeout(), log)

	reg := registry.New(config.DefaultRegistryPath(), sess, log)

	ctx := deckctx.New(reg, sess, cred, commands.NewHuhPrompter(), nil, log)

	app := &commands.App{
		Ctx:      ctx,
		Registry: reg,
		Config:   cfg,
		Logger:   log,
	}

	root := commands.NewRootCommand(app)
	root.Version = fmt.Sprintf("%s (%s)", orNA(buildVersion), orNA(buildCommit))
	return root.Execute()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
