// Package hub provides the IoT Hub command group.
package hub

import (
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
)

// Command returns the hub command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "hub",
		Usage: "Manage IoT Hubs",
		Commands: []*cli.Command{
			createCommand(),
			showCommand(),
			listCommand(),
			updateCommand(),
			deleteCommand(),
			connectionStringCommand(),
			policyCommand(),
			consumerGroupCommand(),
			certificateCommand(),
			endpointCommand(),
			routeCommand(),
			enrichmentCommand(),
			jobCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}
