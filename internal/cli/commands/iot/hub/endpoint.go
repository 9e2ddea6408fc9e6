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

// EndpointRunner executes the routing-endpoint subcommands.
type EndpointRunner struct {
	UseCase *usecase.EndpointUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// EndpointCreateOptions holds the options for the routing-endpoint create
// command.
type EndpointCreateOptions struct {
	HubName       string
	ResourceGroup string

	EndpointName          string
	EndpointType          usecase.EndpointType
	ConnectionString      string
	EndpointResourceGroup string
	EndpointSubscription  string

	Container      string
	Encoding       usecase.StorageEncoding
	BatchFrequency int32
	ChunkSize      int32
	FileNameFormat string

	Wait   bool
	Output output.Format
}

// EndpointListOptions holds the options for the routing-endpoint list
// command.
type EndpointListOptions struct {
	HubName       string
	ResourceGroup string
	EndpointType  usecase.EndpointType
	Output        output.Format
}

// EndpointShowOptions holds the options for the routing-endpoint show
// command.
type EndpointShowOptions struct {
	HubName       string
	ResourceGroup string
	EndpointName  string
}

// EndpointDeleteOptions holds the options for the routing-endpoint delete
// command.
type EndpointDeleteOptions struct {
	HubName       string
	ResourceGroup string
	EndpointName  string
	EndpointType  usecase.EndpointType
	Target        string
	Wait          bool
}

func endpointCommand() *cli.Command {
	return &cli.Command{
		Name:  "routing-endpoint",
		Usage: "Manage the endpoints messages can be routed to",
		Commands: []*cli.Command{
			endpointCreateCommand(),
			endpointListCommand(),
			endpointShowCommand(),
			endpointDeleteCommand(),
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func endpointRunner(ctx context.Context, cmd *cli.Command) (*EndpointRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &EndpointRunner{
		UseCase: &usecase.EndpointUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func endpointCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Add a routing endpoint",
		ArgsUsage: "<hub-name> <endpoint-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringFlag{
				Name:     "endpoint-type",
				Usage:    "eventhub, servicebusqueue, servicebustopic or azurestoragecontainer",
				Required: true,
			},
			&cli.StringFlag{Name: "connection-string", Usage: "Connection string of the target resource", Required: true},
			&cli.StringFlag{Name: "endpoint-resource-group", Usage: "Resource group of the target resource (defaults to the hub's)"},
			&cli.StringFlag{Name: "endpoint-subscription-id", Usage: "Subscription of the target resource"},
			&cli.StringFlag{Name: "container", Usage: "Storage container (storage endpoints only)"},
			&cli.StringFlag{Name: "encoding", Usage: "Storage encoding: avro, avrodeflate or json", Value: "avro"},
			&cli.IntFlag{Name: "batch-frequency", Usage: "Storage batch frequency in seconds (60-720)", Value: 300},
			&cli.IntFlag{Name: "chunk-size", Usage: "Storage chunk size in MB (10-500)", Value: 300},
			&cli.StringFlag{
				Name:  "file-name-format",
				Usage: "Blob name format",
				Value: "{iothub}/{partition}/{YYYY}/{MM}/{DD}/{HH}/{mm}",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot hub routing-endpoint create <hub-name> <endpoint-name>")
			}
			endpointType, err := usecase.ParseEndpointType(cmd.String("endpoint-type"))
			if err != nil {
				return err
			}
			encoding, err := usecase.ParseStorageEncoding(cmd.String("encoding"))
			if err != nil {
				return err
			}
			if err := internal.ValidateRange("batch-frequency", cmd.Int("batch-frequency"), 60, 720); err != nil {
				return err
			}
			if err := internal.ValidateRange("chunk-size", cmd.Int("chunk-size"), 10, 500); err != nil {
				return err
			}

			r, err := endpointRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Create(ctx, EndpointCreateOptions{
				HubName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),

				EndpointName:          cmd.Args().Get(1),
				EndpointType:          endpointType,
				ConnectionString:      cmd.String("connection-string"),
				EndpointResourceGroup: cmd.String("endpoint-resource-group"),
				EndpointSubscription:  cmd.String("endpoint-subscription-id"),

				Container:      cmd.String("container"),
				Encoding:       encoding,
				BatchFrequency: int32(cmd.Int("batch-frequency")),
				ChunkSize:      int32(cmd.Int("chunk-size")),
				FileNameFormat: cmd.String("file-name-format"),

				Wait:   !cmd.Bool("no-wait"),
				Output: output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// Create executes the routing-endpoint create command.
func (r *EndpointRunner) Create(ctx context.Context, opts EndpointCreateOptions) error {
	updated, err := r.UseCase.Create(ctx, usecase.EndpointCreateInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,

		EndpointName:          opts.EndpointName,
		EndpointType:          opts.EndpointType,
		ConnectionString:      opts.ConnectionString,
		EndpointResourceGroup: opts.EndpointResourceGroup,
		EndpointSubscription:  opts.EndpointSubscription,

		Container:      opts.Container,
		Encoding:       opts.Encoding,
		BatchFrequency: opts.BatchFrequency,
		ChunkSize:      opts.ChunkSize,
		FileNameFormat: opts.FileNameFormat,

		Wait: opts.Wait,
	})
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, updated)
	}
	output.Success(r.Stdout, "Added endpoint %s", opts.EndpointName)
	return nil
}

func endpointListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List routing endpoints, all of them or one type",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.StringFlag{Name: "endpoint-type", Usage: "Restrict to one endpoint type"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: azctl iot hub routing-endpoint list <hub-name>")
			}
			var endpointType usecase.EndpointType
			if cmd.String("endpoint-type") != "" {
				var err error
				endpointType, err = usecase.ParseEndpointType(cmd.String("endpoint-type"))
				if err != nil {
					return err
				}
			}

			r, err := endpointRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.List(ctx, EndpointListOptions{
				HubName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				EndpointType:  endpointType,
				Output:        output.ParseFormat(cmd.String("output")),
			})
		},
	}
}

// List executes the routing-endpoint list command.
func (r *EndpointRunner) List(ctx context.Context, opts EndpointListOptions) error {
	endpoints, err := r.UseCase.List(ctx, opts.HubName, opts.ResourceGroup, opts.EndpointType)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, endpoints)
	}
	o := output.New(r.Stdout)
	for _, e := range endpoints.EventHubs {
		o.Field("eventhub", lo.FromPtr(e.Name))
	}
	for _, e := range endpoints.ServiceBusQueues {
		o.Field("servicebusqueue", lo.FromPtr(e.Name))
	}
	for _, e := range endpoints.ServiceBusTopics {
		o.Field("servicebustopic", lo.FromPtr(e.Name))
	}
	for _, e := range endpoints.StorageContainers {
		o.Field("azurestoragecontainer", lo.FromPtr(e.Name))
	}
	return nil
}

func endpointShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a routing endpoint by name",
		ArgsUsage: "<hub-name> <endpoint-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: azctl iot hub routing-endpoint show <hub-name> <endpoint-name>")
			}
			r, err := endpointRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Show(ctx, EndpointShowOptions{
				HubName:       cmd.Args().Get(0),
				ResourceGroup: cmd.String("resource-group"),
				EndpointName:  cmd.Args().Get(1),
			})
		},
	}
}

// Show executes the routing-endpoint show command. The shape depends on
// the endpoint's type, so the output is always JSON.
func (r *EndpointRunner) Show(ctx context.Context, opts EndpointShowOptions) error {
	endpoint, err := r.UseCase.Show(ctx, opts.HubName, opts.ResourceGroup, opts.EndpointName)
	if err != nil {
		return err
	}
	return output.JSON(r.Stdout, endpoint)
}

func endpointDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete routing endpoints by name, by type, or all of them",
		ArgsUsage: "[endpoint-name]",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.NoWaitFlag(),
			internal.YesFlag(),
			&cli.StringFlag{Name: "hub-name", Usage: "Hub to modify", Required: true},
			&cli.StringFlag{Name: "endpoint-type", Usage: "Clear one endpoint type"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var endpointType usecase.EndpointType
			if cmd.String("endpoint-type") != "" {
				var err error
				endpointType, err = usecase.ParseEndpointType(cmd.String("endpoint-type"))
				if err != nil {
					return err
				}
			}

			target := "all routing endpoints"
			name := cmd.Args().Get(0)
			switch {
			case name != "" && endpointType != "":
				target = fmt.Sprintf("endpoint %s and all %s endpoints", name, endpointType)
			case name != "":
				target = "endpoint " + name
			case endpointType != "":
				target = string(endpointType) + " endpoints"
			}
			ok, err := internal.ConfirmDelete(cmd, target)
			if err != nil || !ok {
				return err
			}

			r, err := endpointRunner(ctx, cmd)
			if err != nil {
				return err
			}
			return r.Delete(ctx, EndpointDeleteOptions{
				HubName:       cmd.String("hub-name"),
				ResourceGroup: cmd.String("resource-group"),
				EndpointName:  name,
				EndpointType:  endpointType,
				Target:        target,
				Wait:          !cmd.Bool("no-wait"),
			})
		},
	}
}

// Delete executes the routing-endpoint delete command.
func (r *EndpointRunner) Delete(ctx context.Context, opts EndpointDeleteOptions) error {
	if _, err := r.UseCase.Delete(ctx, usecase.EndpointDeleteInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		EndpointName:  opts.EndpointName,
		EndpointType:  opts.EndpointType,
		Wait:          opts.Wait,
	}); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted %s", opts.Target)
	return nil
}
