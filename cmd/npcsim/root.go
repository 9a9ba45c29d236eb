package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "npcsim",
	Short: "Veilsong NPC cognition core",
	Long: `npcsim runs the Veilsong NPC cognition core: behavior trees,
tiered memory, relationship graph, emotional state, and dialogue for a
population of NPCs, driven on a fixed tick.`,
	SilenceUsage: true,
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
