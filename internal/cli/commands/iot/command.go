// Package iot groups the IoT Hub and Device Provisioning Service commands.
package iot

import (
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/commands/iot/dps"
	"github.com/azctl/azctl/internal/cli/commands/iot/hub"
)

// Command returns the iot command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "iot",
		Usage: "Manage IoT Hubs and Device Provisioning Services",
		Commands: []*cli.Command{
			hub.Command(),
			dps.Command(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}
