// cacheasidectl inspects cacheaside configuration and the entries it keeps
// in redis.
//
// Usage:
//
//	cacheasidectl --config cache.yaml policies
//	cacheasidectl --config cache.yaml render user 42
//	cacheasidectl --config cache.yaml render prefs 42 en
//	cacheasidectl --config cache.yaml peek user:42 user:43
//
// Exit codes: 0 success, 1 failure, 2 bad arguments.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(stdout, stderr).Run(ctx, args); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "usage: %v\n", ue)
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "cacheasidectl",
		Usage:     "inspect cacheaside policies and cached entries",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML or JSON cache config",
				Sources: cli.EnvVars("CACHEASIDE_CONFIG"),
				Value:   "cacheaside.yaml",
			},
			&cli.StringSliceFlag{
				Name:  "redis",
				Usage: "override redis.addrs from the config",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "policies",
				Usage:  "list configured policies",
				Action: func(ctx context.Context, cmd *cli.Command) error { return runPolicies(ctx, cmd, stdout) },
			},
			{
				Name:      "render",
				Usage:     "print the storage key a policy produces for an id",
				ArgsUsage: "<policy> <id> [suffix]",
				Action:    func(ctx context.Context, cmd *cli.Command) error { return runRender(ctx, cmd, stdout) },
			},
			{
				Name:      "peek",
				Usage:     "show what redis holds for rendered keys",
				ArgsUsage: "<key>...",
				Action:    func(ctx context.Context, cmd *cli.Command) error { return runPeek(ctx, cmd, stdout) },
			},
		},
	}
}
