// Package dps provides the Device Provisioning Service command group.
package dps

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
)

// Command returns the dps command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "dps",
		Usage: "Manage Device Provisioning Services",
		Commands: []*cli.Command{
			createCommand(),
			showCommand(),
			listCommand(),
			updateCommand(),
			deleteCommand(),
			accessPolicyCommand(),
			linkedHubCommand(),
			certificateCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

// parseTags splits repeatable key=value flags into a tag map.
func parseTags(pairs []string) (map[string]*string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	tags := make(map[string]*string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("tag %q must be key=value", pair)
		}
		tags[key] = lo.ToPtr(value)
	}
	return tags, nil
}
