package hub

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/azctl/azctl/internal/certfile"
	"github.com/azctl/azctl/internal/cli/commands/internal"
	"github.com/azctl/azctl/internal/cli/output"
	"github.com/azctl/azctl/internal/infra"
	usecase "github.com/azctl/azctl/internal/usecase/hub"
)

// CertificateRunner executes the certificate subcommands.
type CertificateRunner struct {
	UseCase *usecase.CertificateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// CertificateOptions holds the options shared by the certificate
// subcommands. Content carries the PEM or base64 body read from the path
// argument, Etag the optional entity tag for deletes.
type CertificateOptions struct {
	HubName         string
	ResourceGroup   string
	CertificateName string
	Content         string
	Etag            string
	Output          output.Format
}

func certificateCommand() *cli.Command {
	return &cli.Command{
		Name:  "certificate",
		Usage: "Manage CA certificates of an IoT hub",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Upload a certificate",
				ArgsUsage: "<hub-name> <certificate-name> <path>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 3 {
						return fmt.Errorf("usage: azctl iot hub certificate create <hub-name> <certificate-name> <path>")
					}
					opts, err := certificateOptionsWithContent(cmd)
					if err != nil {
						return err
					}
					r, err := certificateRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.Create(ctx, opts)
				},
			},
			{
				Name:      "list",
				Usage:     "List certificates",
				ArgsUsage: "<hub-name>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 1 {
						return fmt.Errorf("usage: azctl iot hub certificate list <hub-name>")
					}
					r, err := certificateRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.List(ctx, certificateOptions(cmd))
				},
			},
			{
				Name:      "show",
				Usage:     "Show a certificate",
				ArgsUsage: "<hub-name> <certificate-name>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: azctl iot hub certificate show <hub-name> <certificate-name>")
					}
					r, err := certificateRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.Show(ctx, certificateOptions(cmd))
				},
			},
			{
				Name:      "update",
				Usage:     "Replace an existing certificate's content",
				ArgsUsage: "<hub-name> <certificate-name> <path>",
				Flags:     []cli.Flag{internal.ResourceGroupFlag(), internal.OutputFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 3 {
						return fmt.Errorf("usage: azctl iot hub certificate update <hub-name> <certificate-name> <path>")
					}
					opts, err := certificateOptionsWithContent(cmd)
					if err != nil {
						return err
					}
					r, err := certificateRunner(ctx, cmd)
					if err != nil {
						return err
					}
					return r.Update(ctx, opts)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a certificate",
				ArgsUsage: "<hub-name> <certificate-name>",
				Flags: []cli.Flag{
					internal.ResourceGroupFlag(),
					internal.YesFlag(),
					&cli.StringFlag{Name: "etag", Usage: "Entity tag (fetched when omitted)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() < 2 {
						return fmt.Errorf("usage: azctl iot hub certificate delete <hub-name> <certificate-name>")
					}
					ok, err := internal.ConfirmDelete(cmd, "certificate "+cmd.Args().Get(1))
					if err != nil || !ok {
						return err
					}
					r, err := certificateRunner(ctx, cmd)
					if err != nil {
						return err
					}
					opts := certificateOptions(cmd)
					opts.Etag = cmd.String("etag")
					return r.Delete(ctx, opts)
				},
			},
		},
		CommandNotFound: internal.CommandNotFound,
	}
}

func certificateRunner(ctx context.Context, cmd *cli.Command) (*CertificateRunner, error) {
	clients, err := infra.NewClients(ctx)
	if err != nil {
		return nil, err
	}
	return &CertificateRunner{
		UseCase: &usecase.CertificateUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}, nil
}

func certificateOptions(cmd *cli.Command) CertificateOptions {
	return CertificateOptions{
		HubName:         cmd.Args().Get(0),
		ResourceGroup:   cmd.String("resource-group"),
		CertificateName: cmd.Args().Get(1),
		Output:          output.ParseFormat(cmd.String("output")),
	}
}

func certificateOptionsWithContent(cmd *cli.Command) (CertificateOptions, error) {
	content, err := certfile.Read(cmd.Args().Get(2))
	if err != nil {
		return CertificateOptions{}, err
	}
	opts := certificateOptions(cmd)
	opts.Content = content
	return opts, nil
}

// Create executes the certificate create command.
func (r *CertificateRunner) Create(ctx context.Context, opts CertificateOptions) error {
	cert, err := r.UseCase.Create(ctx, opts.HubName, opts.ResourceGroup, opts.CertificateName, opts.Content)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, cert)
	}
	output.Success(r.Stdout, "Uploaded certificate %s", lo.FromPtr(cert.Name))
	return nil
}

// List executes the certificate list command.
func (r *CertificateRunner) List(ctx context.Context, opts CertificateOptions) error {
	certs, err := r.UseCase.List(ctx, opts.HubName, opts.ResourceGroup)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, certs)
	}
	o := output.New(r.Stdout)
	for _, cert := range certs {
		o.Line("%s", lo.FromPtr(cert.Name))
	}
	return nil
}

// Show executes the certificate show command.
func (r *CertificateRunner) Show(ctx context.Context, opts CertificateOptions) error {
	cert, err := r.UseCase.Show(ctx, opts.HubName, opts.ResourceGroup, opts.CertificateName)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, cert)
	}
	o := output.New(r.Stdout)
	o.Field("Name", lo.FromPtr(cert.Name))
	o.Field("Etag", lo.FromPtr(cert.Etag))
	if cert.Properties != nil {
		o.Field("Thumbprint", lo.FromPtr(cert.Properties.Thumbprint))
	}
	return nil
}

// Update executes the certificate update command.
func (r *CertificateRunner) Update(ctx context.Context, opts CertificateOptions) error {
	cert, err := r.UseCase.Update(ctx, opts.HubName, opts.ResourceGroup, opts.CertificateName, opts.Content)
	if err != nil {
		return err
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, cert)
	}
	output.Success(r.Stdout, "Updated certificate %s", lo.FromPtr(cert.Name))
	return nil
}

// Delete executes the certificate delete command.
func (r *CertificateRunner) Delete(ctx context.Context, opts CertificateOptions) error {
	if err := r.UseCase.Delete(ctx, opts.HubName, opts.ResourceGroup, opts.CertificateName, opts.Etag); err != nil {
		return err
	}
	output.Success(r.Stdout, "Deleted certificate %s", opts.CertificateName)
	return nil
}
