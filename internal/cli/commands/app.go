// Package commands provides the command-line interface for azctl.
package commands

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/iot"
	"github.com/azctl/azctl/internal/cli/commands/keyvault"
)

// MakeApp creates a new CLI application instance.
func MakeApp() *cli.Command {
	return &cli.Command{
		Name:    "azctl",
		Usage:   "Manage Azure IoT Hub, Device Provisioning Service and Key Vault resources",
		Version: "0.1.0",
		Commands: []*cli.Command{
			iot.Command(),
			keyvault.Command(),
		},
		CommandNotFound: func(_ context.Context, cmd *cli.Command, command string) {
			_ = cli.ShowAppHelp(cmd)
			w := lo.CoalesceOrEmpty(cmd.Root().ErrWriter, cmd.Root().Writer)
			_, _ = fmt.Fprintf(w, "\nCommand not found: %s\n", command)
		},
	}
}

// App is the main CLI application.
var App = MakeApp()
