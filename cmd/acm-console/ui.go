// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kuklas/acm-user-interface-sub002/internal/clierr"
	"github.com/kuklas/acm-user-interface-sub002/internal/config"
)

// runUI starts the interactive console. Events go to a session log file because
// the terminal is owned by the UI.
func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return clierr.Validation(err)
	}

	sessionLog, err := NewSessionLogger(cfg.LogDir, "console", cfg.Level())
	if err != nil {
		return err
	}
	defer func() {
		if path := sessionLog.Close(); path != "" {
			fmt.Fprintf(os.Stderr, "Session log: %s\n", path)
		}
	}()

	s, err := newSessionFromConfig(cfg, sessionLog.Logger())
	if err != nil {
		return err
	}
	s.log.Info().
		Str("actor", s.actor.Name).
		Str("perspective", s.cfg.Perspective).
		Dur("impersonationDelay", s.cfg.ImpersonationDelay).
		Msg("console starting")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(NewConsoleModel(ctx, s), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running console: %w", err)
	}
	return nil
}
