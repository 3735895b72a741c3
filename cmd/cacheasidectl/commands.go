package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/unkn0wn-root/cacheaside"
	"github.com/unkn0wn-root/cacheaside/config"
	"github.com/unkn0wn-root/cacheaside/provider/redis"
)

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if addrs := cmd.StringSlice("redis"); len(addrs) > 0 {
		cfg.Redis.Addrs = addrs
	}
	return cfg, nil
}

func runPolicies(_ context.Context, cmd *cli.Command, out io.Writer) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKEY\tHIT_TTL\tMISS_TTL\tLOCAL")
	for _, name := range cfg.PolicyNames() {
		p, _ := cfg.Policy(name)
		miss := "off"
		if p.MissTTL > 0 {
			miss = p.MissTTL.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", name, p.Key, p.HitTTL, miss, p.Local)
	}
	return tw.Flush()
}

func runRender(_ context.Context, cmd *cli.Command, out io.Writer) error {
	if cmd.NArg() < 2 || cmd.NArg() > 3 {
		return usagef("render <policy> <id> [suffix]")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Policy(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	tmpl, err := cacheaside.ParseTemplate(p.Key)
	if err != nil {
		return err
	}
	if cmd.NArg() == 3 {
		tmpl = tmpl.WithSuffix(cmd.Args().Get(2))
	}
	fmt.Fprintln(out, tmpl.Render(idArg(cmd.Args().Get(1))))
	return nil
}

// idArg lets numeric ids satisfy %d templates.
func idArg(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

func runPeek(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	if cmd.NArg() == 0 {
		return usagef("peek <key>...")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	remote, err := redis.New(redis.Config{Client: cfg.RedisClient(), CloseClient: true})
	if err != nil {
		return err
	}
	c, err := cacheaside.New(cacheaside.Options{Remote: remote})
	if err != nil {
		_ = remote.Close(ctx)
		return err
	}
	defer c.Close(ctx)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tOUTCOME\tKIND\tTTL\tBYTES")
	for _, key := range cmd.Args().Slice() {
		l := c.Peek(ctx, key)
		if l.Outcome == cacheaside.OutcomeFailed {
			return fmt.Errorf("peek %s: %w", key, l.Err)
		}
		kind := l.Kind()
		if kind == "" {
			kind = "-"
		}
		ttl := "-"
		if l.Found() || l.Outcome == cacheaside.OutcomeForeign {
			ttl = ttlString(remote.Client().TTL(ctx, key).Val())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", key, l.Outcome, kind, ttl, len(l.Payload))
	}
	return tw.Flush()
}

func ttlString(d time.Duration) string {
	if d < 0 {
		return "none"
	}
	return d.Round(time.Second).String()
}
