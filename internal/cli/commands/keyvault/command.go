// Package keyvault provides the Key Vault command group.
package keyvault

import (
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
)

// Command returns the keyvault command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "keyvault",
		Usage: "Manage Key Vaults",
		Commands: []*cli.Command{
			createCommand(),
			showCommand(),
			listCommand(),
			updateCommand(),
			deleteCommand(),
			setPolicyCommand(),
			deletePolicyCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}
