package hub

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/iothub/armiothub"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/cli/pager"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

// ShowRunner executes the hub show command.
type ShowRunner struct {
	UseCase *usecase.FetchUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ShowOptions holds the options for the hub show command.
type ShowOptions struct {
	Name          string
	ResourceGroup string
	Output        output.Format
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the details of an IoT hub",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: showAction,
	}
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("usage: azctl iot hub show <hub-name>")
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &ShowRunner{
		UseCase: &usecase.FetchUseCase{Client: clients.Hub, Groups: clients.Groups},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, ShowOptions{
		Name:          cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		Output:        output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the hub show command.
func (r *ShowRunner) Run(ctx context.Context, opts ShowOptions) error {
	found, err := r.UseCase.Execute(ctx, opts.Name, opts.ResourceGroup)
	if err != nil {
		return err
	}

	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, found)
	}
	writeHubSummary(output.New(r.Stdout), &found)
	return nil
}

// ListRunner executes the hub list command.
type ListRunner struct {
	UseCase *usecase.ListUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ListOptions holds the options for the hub list command.
type ListOptions struct {
	ResourceGroup string
	NoPager       bool
	Output        output.Format
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List IoT hubs in the subscription or a resource group",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.BoolFlag{Name: "no-pager", Usage: "Disable pager for long output"},
		},
		Action: listAction,
	}
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &ListRunner{
		UseCase: &usecase.ListUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, ListOptions{
		ResourceGroup: cmd.String("resource-group"),
		NoPager:       cmd.Bool("no-pager"),
		Output:        output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the hub list command.
func (r *ListRunner) Run(ctx context.Context, opts ListOptions) error {
	hubs, err := r.UseCase.Execute(ctx, opts.ResourceGroup)
	if err != nil {
		return err
	}

	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, hubs)
	}
	return pager.WithPagerWriter(r.Stdout, opts.NoPager, func(w io.Writer) error {
		o := output.New(w)
		for i, h := range hubs {
			if i > 0 {
				o.Separator()
			}
			writeHubSummary(o, h)
		}
		return nil
	})
}

func writeHubSummary(o *output.Writer, h *armiothub.Description) {
	o.Field("Name", lo.FromPtr(h.Name))
	o.Field("Location", lo.FromPtr(h.Location))
	if h.SKU != nil {
		o.Field("SKU", fmt.Sprintf("%s (%d units)", lo.FromPtr(h.SKU.Name), lo.FromPtr(h.SKU.Capacity)))
	}
	if h.Properties != nil {
		o.Field("Host name", lo.FromPtr(h.Properties.HostName))
		o.Field("State", string(lo.FromPtr(h.Properties.State)))
	}
}

// DeleteRunner executes the hub delete command.
type DeleteRunner struct {
	UseCase *usecase.DeleteUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// DeleteOptions holds the options for the hub delete command.
type DeleteOptions struct {
	Name          string
	ResourceGroup string
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an IoT hub",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.YesFlag(),
		},
		Action: deleteAction,
	}
}

func deleteAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("usage: azctl iot hub delete <hub-name>")
	}
	hubName := cmd.Args().Get(0)

	ok, err := internal.ConfirmDelete(cmd, "IoT hub "+hubName)
	if err != nil || !ok {
		return err
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &DeleteRunner{
		UseCase: &usecase.DeleteUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, DeleteOptions{
		Name:          hubName,
		ResourceGroup: cmd.String("resource-group"),
	})
}

// Run executes the hub delete command.
func (r *DeleteRunner) Run(ctx context.Context, opts DeleteOptions) error {
	if err := r.UseCase.Execute(ctx, opts.Name, opts.ResourceGroup); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted IoT hub %s", opts.Name)
	return nil
}
