// Command arena is the thin CLI driver for the deterministic match core: it
// runs one match, runs a round-robin ladder, or verifies a replay log. It
// deliberately contains no game logic of its own; it only wires together
// the core packages. One Cmd struct per kong subcommand, each with its own
// Run.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI is the top-level arena command tree.
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Match   MatchCmd         `cmd:"" help:"Run one match between agents"`
	Ladder  LadderCmd        `cmd:"" help:"Run a round-robin ladder between agents"`
	Verify  VerifyCmd        `cmd:"" help:"Verify a replay log against a discipline"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("arena"),
		kong.Description("Deterministic match core driver: run matches, run ladders, verify replays"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "arena:", err)
	}
	os.Exit(exitCode(err))
}
