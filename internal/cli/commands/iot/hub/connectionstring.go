package hub

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

// ConnectionStringRunner executes the show-connection-string command.
type ConnectionStringRunner struct {
	UseCase *usecase.ConnectionStringUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// ConnectionStringOptions holds the options for the show-connection-string
// command. An empty HubName means every hub in scope.
type ConnectionStringOptions struct {
	HubName       string
	ResourceGroup string
	PolicyName    string
	KeyType       usecase.KeyType
	Output        output.Format
}

func connectionStringCommand() *cli.Command {
	return &cli.Command{
		Name:      "show-connection-string",
		Usage:     "Show the connection string of one or all IoT hubs",
		ArgsUsage: "[hub-name]",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.StringFlag{Name: "policy-name", Usage: "Shared access policy", Value: usecase.DefaultPolicyName},
			&cli.StringFlag{Name: "key-type", Usage: "Key to embed: primary or secondary", Value: "primary"},
		},
		Action: connectionStringAction,
	}
}

func connectionStringAction(ctx context.Context, cmd *cli.Command) error {
	keyType, err := usecase.ParseKeyType(cmd.String("key-type"))
	if err != nil {
		return err
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &ConnectionStringRunner{
		UseCase: &usecase.ConnectionStringUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, ConnectionStringOptions{
		HubName:       cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		PolicyName:    cmd.String("policy-name"),
		KeyType:       keyType,
		Output:        output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the show-connection-string command.
func (r *ConnectionStringRunner) Run(ctx context.Context, opts ConnectionStringOptions) error {
	results, err := r.UseCase.Execute(ctx, usecase.ConnectionStringInput{
		HubName:       opts.HubName,
		ResourceGroup: opts.ResourceGroup,
		PolicyName:    opts.PolicyName,
		KeyType:       opts.KeyType,
	})
	if err != nil {
		return err
	}

	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, results)
	}
	o := output.New(r.Stdout)
	for _, result := range results {
		o.Field(result.Name, result.ConnectionString)
	}
	return nil
}
