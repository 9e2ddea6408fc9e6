package hub

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

// RouteRunner executes the route subcommands.
type RouteRunner struct {
	UseCase *usecase.RouteUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// RouteCreateOptions holds the options for the route create command.
type RouteCreateOptions struct {
	HubName       string
	ResourceGroup string
	RouteName     string
	Source        armiothub.RoutingSource
	EndpointName  string
	Condition     string
	Enabled       bool
	Wait          bool
}

// RouteListOptions holds the options for the route list command.
type RouteListOptions struct {
	HubName       string
	ResourceGroup string
	Source        armiothub.RoutingSource
	Output        output.Format
}

// RouteShowOptions holds the options for the route show command.
type RouteShowOptions struct {
	HubName       string
	ResourceGroup string
	RouteName     string
}

// RouteUpdateOptions holds the options for the route update command. Nil
// fields were not set on the command line and keep the route's values.
type RouteUpdateOptions struct {
	HubName       string
	ResourceGroup string
	RouteName     string
	Source        *armiothub.RoutingSource
	EndpointName  *string
	Condition     *string
	Enabled       *bool
	Wait          bool
}

// RouteDeleteOptions holds the options for the route delete command.
type RouteDeleteOptions struct {
	HubName       string
	ResourceGroup string
	RouteName     string
	Source        armiothub.RoutingSource
	Target        string
	Wait          bool
}

// RouteTestOptions holds the options for the route test command.
type RouteTestOptions struct {
	HubName          string
	ResourceGroup    string
	RouteName        string
	Source           armiothub.RoutingSource
	Body             string
	AppProperties    map[string]*string
	SystemProperties map[string]*string
}

func routeCommand() *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "Manage routes that direct messages to endpoints",
		Commands: []*cli.Command{
			routeCreateCommand(),
			routeListCommand(),
			routeShowCommand(),
			routeUpdateCommand(),
			routeDeleteCommand(),
			routeTestCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func routeSourceFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "source", Usage: "Route source, e.g. DeviceMessages or TwinChangeEvents"}
}

func routeRunner(ctx context.Context, cmd *cli.Command) (*RouteRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &RouteRunner{
		UseCase: &usecase.RouteUseCase{Client: clients.Hub, Tester: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func routeCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Add a route",
		ArgsUsage: "<hub-name> <route-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringFlag{Name: "source", Usage: "Route source, e.g. DeviceMessages or TwinChangeEvents", Required: true},
			&cli.StringFlag{Name: "endpoint-name", Usage: "Endpoint names, whitespace separated", Required: true},
			&cli.StringFlag{Name: "condition", Usage: "Routing query (defaults to matching every message)"},
			&cli.BoolFlag{Name: "enabled", Usage: "Enable the route", Value: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot hub route create <hub-name> <route-name>")
			}
			source, err := usecase.ParseRoutingSource(cmd.String("source"))
			if err != nil {
				return err
			}

			r, err := routeRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Create(ctx, RouteCreateOptions{
				HubName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				RouteName:     cmd.Args().Get(1),
				Source:        source,
				EndpointName:  cmd.String("endpoint-name"),
				Condition:     cmd.String("condition"),
				Enabled:       cmd.Bool("enabled"),
				Wait:          !cmd.Bool("no-wait"),
			})
		},
	}
}

// Create executes the route create command.
func (r *RouteRunner) Create(ctx context.Context, opts RouteCreateOptions) error {
	if _, err := r.UseCase.Create(ctx, usecase.RouteCreateInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		RouteName:     opts.RouteName,
		Source:        opts.Source,
		EndpointName:  opts.EndpointName,
		Condition:     opts.Condition,
		Enabled:       opts.Enabled,
		Wait:          opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Added route %s", opts.RouteName)
	return nil
}

func routeListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List routes, optionally filtered by source",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			routeSourceFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub route list <hub-name>")
			}
			source, err := optionalRoutingSource(cmd)
			if err != nil {
				return err
			}

			r, err := routeRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.List(ctx, RouteListOptions{
				HubName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				Source:        source,
				Output:        output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// List executes the route list command.
func (r *RouteRunner) List(ctx context.Context, opts RouteListOptions) error {
	routes, err := r.UseCase.List(ctx, opts.HubName, opts.ResourceGroup, opts.Source)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, routes)
	}
	o := output.New(r.Stdout)
	for _, route := range routes {
		o.Field(lo.FromPtr(route.Name), string(lo.FromPtr(route.Source)))
	}
	return nil
}

func routeShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a route by name",
		ArgsUsage: "<hub-name> <route-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot hub route show <hub-name> <route-name>")
			}
			r, err := routeRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Show(ctx, RouteShowOptions{
				HubName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				RouteName:     cmd.Args().Get(1),
			})
		},
	}
}

// Show executes the route show command.
func (r *RouteRunner) Show(ctx context.Context, opts RouteShowOptions) error {
	route, err := r.UseCase.Show(ctx, opts.HubName, opts.ResourceGroup, opts.RouteName)
	if err != nil {
		return err
	}
	return output.JSON(r.Stdout, route)
}

func routeUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update fields of an existing route",
		ArgsUsage: "<hub-name> <route-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			routeSourceFlag(),
			&cli.StringFlag{Name: "endpoint-name", Usage: "Endpoint names, whitespace separated"},
			&cli.StringFlag{Name: "condition", Usage: "Routing query"},
			&cli.BoolFlag{Name: "enabled", Usage: "Enable or disable the route"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot hub route update <hub-name> <route-name>")
			}
			var source *armiothub.RoutingSource
			if cmd.IsSet("source") {
				parsed, err := usecase.ParseRoutingSource(cmd.String("source"))
				if err != nil {
					return err
				}
				source = &parsed
			}

			r, err := routeRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Update(ctx, RouteUpdateOptions{
				HubName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				RouteName:     cmd.Args().Get(1),
				Source:        source,
				EndpointName:  internal.OptionalString(cmd, "endpoint-name"),
				Condition:     internal.OptionalString(cmd, "condition"),
				Enabled:       internal.OptionalBool(cmd, "enabled"),
				Wait:          !cmd.Bool("no-wait"),
			})
		},
	}
}

// Update executes the route update command.
func (r *RouteRunner) Update(ctx context.Context, opts RouteUpdateOptions) error {
	if _, err := r.UseCase.Update(ctx, usecase.RouteUpdateInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		RouteName:     opts.RouteName,
		Source:        opts.Source,
		EndpointName:  opts.EndpointName,
		Condition:     opts.Condition,
		Enabled:       opts.Enabled,
		Wait:          opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Updated route %s", opts.RouteName)
	return nil
}

func routeDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete routes by name, by source, or all of them",
		ArgsUsage: "[route-name]",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			internal.YesFlag(),
			&cli.StringFlag{Name: "hub-name", Usage: "Hub to modify", Required: true},
			routeSourceFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			source, err := optionalRoutingSource(cmd)
			if err != nil {
				return err
			}

			target := "all routes"
			if name := cmd.Args().Get(0); name != "" {
				target = "route " + name
			} else if source != "" {
				target = string(source) + " routes"
			}
			ok, err := internal.ConfirmDelete(cmd, target)
			if err != nil || !ok {
				return err
			}

			r, err := routeRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Delete(ctx, RouteDeleteOptions{
				HubName:       cmd.String("hub-name"),
				ResourceGroup: cmd.String("resource-group"),
				RouteName:     cmd.Args().Get(0),
				Source:        source,
				Target:        target,
				Wait:          !cmd.Bool("no-wait"),
			})
		},
	}
}

// Delete executes the route delete command.
func (r *RouteRunner) Delete(ctx context.Context, opts RouteDeleteOptions) error {
	if _, err := r.UseCase.Delete(ctx, usecase.RouteDeleteInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		RouteName:     opts.RouteName,
		Source:        opts.Source,
		Wait:          opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted %s", opts.Target)
	return nil
}

func routeTestCommand() *cli.Command {
	return &cli.Command{
		Name:      "test",
		Usage:     "Test a message against one route or all routes of a source",
		ArgsUsage: "<hub-name> [route-name]",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			routeSourceFlag(),
			&cli.StringFlag{Name: "body", Usage: "Message body"},
			&cli.StringSliceFlag{Name: "app-property", Usage: "Application property as key=value, repeatable"},
			&cli.StringSliceFlag{Name: "system-property", Usage: "System property as key=value, repeatable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub route test <hub-name> [route-name]")
			}
			source, err := optionalRoutingSource(cmd)
			if err != nil {
				return err
			}
			appProperties, err := parseProperties(cmd.StringSlice("app-property"))
			if err != nil {
				return err
			}
			systemProperties, err := parseProperties(cmd.StringSlice("system-property"))
			if err != nil {
				return err
			}

			r, err := routeRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Test(ctx, RouteTestOptions{
				HubName:          cmd.Args().Get(0),
				ResourceGroup:    cmd.String("resource-group"),
				RouteName:        cmd.Args().Get(1),
				Source:           source,
				Body:             cmd.String("body"),
				AppProperties:    appProperties,
				SystemProperties: systemProperties,
			})
		},
	}
}

// Test executes the route test command.
func (r *RouteRunner) Test(ctx context.Context, opts RouteTestOptions) error {
	result, err := r.UseCase.Test(ctx, usecase.RouteTestInput{
		HubName:          opts.HubName,
		ResourceGroup:    opts.ResourceGroup,
		RouteName:        opts.RouteName,
		Source:           opts.Source,
		Body:             opts.Body,
		AppProperties:    opts.AppProperties,
		SystemProperties: opts.SystemProperties,
	})
	if err != nil {
		return err
	}
	return output.JSON(r.Stdout, result)
}

func optionalRoutingSource(cmd *cli.Command) (armiothub.RoutingSource, error) {
	if cmd.String("source") == "" {
		return "", nil
	}
	return usecase.ParseRoutingSource(cmd.String("source"))
}

// parseProperties splits repeatable key=value flags into a property map.
func parseProperties(pairs []string) (map[string]*string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	properties := make(map[string]*string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("property %q must be key=value", pair)
		}
		properties[key] = lo.ToPtr(value)
	}
	return properties, nil
}
