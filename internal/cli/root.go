package cli

import (
	"context"
	"io"
)

// Execute runs the blueprint CLI with args, logging to stderr. It is the
// entry point used by cmd/blueprint:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	if err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
//	    os.Exit(1)
//	}
//
// Commands that print data rather than status write to stdout.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
