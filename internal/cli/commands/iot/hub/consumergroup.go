package hub

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

// ConsumerGroupRunner executes the consumer-group subcommands.
type ConsumerGroupRunner struct {
	UseCase *usecase.ConsumerGroupUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ConsumerGroupOptions holds the options shared by the consumer-group
// subcommands.
type ConsumerGroupOptions struct {
	HubName       string
	ResourceGroup string
	EventHubName  string
	GroupName     string
	Output        output.Format
}

func consumerGroupCommand() *cli.Command {
	eventHubFlag := &cli.StringFlag{
		Name:  "event-hub-name",
		Usage: "Built-in event hub endpoint",
		Value: usecase.DefaultEventHubEndpoint,
	}

	return &cli.Command{
		Name:  "consumer-group",
		Usage: "Manage consumer groups of an IoT hub's built-in event hub",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a consumer group",
				ArgsUsage: "<hub-name> <group-name>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag(), eventHubFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: azctl iot hub consumer-group create <hub-name> <group-name>")
					}
					r, err := consumerGroupRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.Create(ctx, consumerGroupOptions(cmd))
				},
			},
			{
				Name:      "list",
				Usage:     "List consumer groups",
				ArgsUsage: "<hub-name>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag(), eventHubFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 1 {
						return fmt.Errorf("usage: azctl iot hub consumer-group list <hub-name>")
					}
					r, err := consumerGroupRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.List(ctx, consumerGroupOptions(cmd))
				},
			},
			{
				Name:      "show",
				Usage:     "Show a consumer group",
				ArgsUsage: "<hub-name> <group-name>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag(), eventHubFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: azctl iot hub consumer-group show <hub-name> <group-name>")
					}
					r, err := consumerGroupRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.Show(ctx, consumerGroupOptions(cmd))
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a consumer group",
				ArgsUsage: "<hub-name> <group-name>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), eventHubFlag, internal.YesFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: azctl iot hub consumer-group delete <hub-name> <group-name>")
					}
					ok, err := internal.ConfirmDelete(cmd, "consumer group "+cmd.Args().Get(1))
					if err != nil || !ok {
						return err
					}
					r, err := consumerGroupRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.Delete(ctx, consumerGroupOptions(cmd))
				},
			},
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func consumerGroupRunner(ctx context.Context, cmd *cli.Command) (*ConsumerGroupRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ConsumerGroupRunner{
		UseCase: &usecase.ConsumerGroupUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func consumerGroupOptions(cmd *cli.Command) ConsumerGroupOptions {
	return ConsumerGroupOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		EventHubName:  cmd.String("event-hub-name"),
		GroupName:     cmd.Args().Get(1),
		Output:        output.ParseFormat(cmd.String("output")),
	}
}

// Create executes the consumer-group create command.
func (r *ConsumerGroupRunner) Create(ctx context.Context, opts ConsumerGroupOptions) error {
	group, err := r.UseCase.Create(ctx, opts.HubName, opts.ResourceGroup, opts.EventHubName, opts.GroupName)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, group)
	}
	output.Success(r.Stdout, "Created consumer group %s", lo.FromPtr(group.Name))
	return nil
}

// List executes the consumer-group list command.
func (r *ConsumerGroupRunner) List(ctx context.Context, opts ConsumerGroupOptions) error {
	groups, err := r.UseCase.List(ctx, opts.HubName, opts.ResourceGroup, opts.EventHubName)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, groups)
	}
	o := output.New(r.Stdout)
	for _, group := range groups {
		o.Line("%s", lo.FromPtr(group.Name))
	}
	return nil
}

// Show executes the consumer-group show command.
func (r *ConsumerGroupRunner) Show(ctx context.Context, opts ConsumerGroupOptions) error {
	group, err := r.UseCase.Show(ctx, opts.HubName, opts.ResourceGroup, opts.EventHubName, opts.GroupName)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, group)
	}
	o := output.New(r.Stdout)
	o.Field("Name", lo.FromPtr(group.Name))
	o.Field("Etag", lo.FromPtr(group.Etag))
	return nil
}

// Delete executes the consumer-group delete command.
func (r *ConsumerGroupRunner) Delete(ctx context.Context, opts ConsumerGroupOptions) error {
	if err := r.UseCase.Delete(ctx, opts.HubName, opts.ResourceGroup, opts.EventHubName, opts.GroupName); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted consumer group %s", opts.GroupName)
	return nil
}
