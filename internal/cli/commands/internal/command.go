// Package internal provides shared utilities for CLI commands.
package internal

import (
	"context"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/confirm"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/errs"
)

// CommandNotFound is a shared handler for unknown subcommands.
// It displays the command help and an error message.
func CommandNotFound(_ context.Context, cmd *cli.Command, command string) {
	_ = cli.ShowSubcommandHelp(cmd)
	w := lo.CoalesceOrEmpty(cmd.Root().ErrWriter, cmd.Root().Writer)
	output.Printf(w, "\nUnknown command: %s\n", command)
}

// ValidateRange rejects flag values outside [low, high] before any service
// call is made.
func ValidateRange(flag string, value, low, high int) error {
	if value < low || value > high {
		return errs.InvalidArgumentf("--%s must be between %d and %d, got %d", flag, low, high, value)
	}
	return nil
}

// ResourceGroupFlag is the shared -g/--resource-group flag. Commands scan
// the subscription for the named resource when it is omitted.
func ResourceGroupFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "resource-group",
		Aliases: []string{"g"},
		Usage:   "Resource group of the target resource (scans the subscription when omitted)",
	}
}

// OutputFlag is the shared -o/--output flag.
func OutputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format: text or json",
		Value:   "text",
	}
}

// NoWaitFlag is the shared --no-wait flag for long-running updates.
func NoWaitFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "no-wait",
		Usage: "Return immediately without waiting for the operation to finish",
	}
}

// YesFlag is the shared -y/--yes flag skipping delete confirmation.
func YesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not prompt for confirmation",
	}
}

// ConfirmDelete prompts before a destructive operation unless --yes was
// given. Returns false when the user declines.
func ConfirmDelete(cmd *cli.Command, target string) (bool, error) {
	root := cmd.Root()
	prompter := &confirm.Prompter{
		Stdin:  lo.CoalesceOrEmpty[io.Reader](root.Reader, os.Stdin),
		Stdout: lo.CoalesceOrEmpty[io.Writer](root.Writer, os.Stdout),
		Stderr: lo.CoalesceOrEmpty[io.Writer](root.ErrWriter, os.Stderr),
	}
	return prompter.ConfirmDelete(target, cmd.Bool("yes"))
}

// OptionalString returns a pointer to the flag's value when it was set on
// the command line, nil otherwise. Partial updates rely on the
// distinction.
func OptionalString(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	return lo.ToPtr(cmd.String(name))
}

// OptionalInt64 returns a pointer to the flag's value when set, widened
// to int64 for the SDK's capacity and TTL fields.
func OptionalInt64(cmd *cli.Command, name string) *int64 {
	if !cmd.IsSet(name) {
		return nil
	}
	return lo.ToPtr(int64(cmd.Int(name)))
}

// OptionalInt32 returns a pointer to the flag's value when set, narrowed
// to int32 for the SDK's count fields.
func OptionalInt32(cmd *cli.Command, name string) *int32 {
	if !cmd.IsSet(name) {
		return nil
	}
	return lo.ToPtr(int32(cmd.Int(name)))
}

// OptionalBool returns a pointer to the flag's value when set.
func OptionalBool(cmd *cli.Command, name string) *bool {
	if !cmd.IsSet(name) {
		return nil
	}
	return lo.ToPtr(cmd.Bool(name))
}
