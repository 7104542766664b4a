// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package commands

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// HuhPrompter implements [deckctx.PasswordPrompter] with a masked
// single-field huh form, the CLI-first replacement for the teacher's
// bubbletea login screen.
type HuhPrompter struct{}

// NewHuhPrompter returns the production password prompter, wired into
// cmd/holecard/main.go's deck context.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func (HuhPrompter) PromptMasterPassword(deckName string) (string, error) {
	var password string
	field := huh.NewInput().
		Title(fmt.Sprintf("Master password for %q", deckName)).
		EchoMode(huh.EchoModePassword).
		Value(&password)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", err
	}
	return password, nil
}
