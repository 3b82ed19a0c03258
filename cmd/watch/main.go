// Command watch is a read-only spectator TUI: it tails a JSONL match event
// log (as written by cmd/arena's match/ladder runs) and renders turns,
// annotations, and showdown results live. It is, like cmd/arena, a thin
// external driver around the core packages.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

type CLI struct {
	Log      string `arg:"" help:"Path to a JSONL match event log to tail"`
	LogLevel string `help:"Set the log-level" enum:"debug,info,warn,error" default:"info"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("watch"),
		kong.Description("Tail a match event log and render it live"),
		kong.UsageOnError(),
	)

	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "watch", Level: level})
	logger.SetColorProfile(termenv.TrueColor)

	model := newModel(cli.Log, logger)
	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		os.Exit(1)
	}
}
