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

// CreateRunner executes the hub create command.
type CreateRunner struct {
	UseCase *usecase.CreateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// CreateOptions holds the options for the hub create command.
type CreateOptions struct {
	Name          string
	ResourceGroup string
	Location      string
	SKU           string
	Units         int64

	PartitionCount int32
	RetentionDays  int64

	C2DTTLHours              int64
	C2DMaxDeliveryCount      int32
	FeedbackLockSeconds      int64
	FeedbackTTLHours         int64
	FeedbackMaxDeliveryCount int32

	EnableFileUploadNotifications          bool
	FileUploadNotificationMaxDeliveryCount int32
	FileUploadNotificationTTLHours         int64
	FileUploadStorageConnectionString      string
	FileUploadStorageContainerName         string
	FileUploadSASTTLHours                  int64

	Output output.Format
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create an IoT hub",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location (defaults to the resource group's location)"},
			&cli.StringFlag{Name: "sku", Usage: "Pricing tier", Value: "S1"},
			&cli.IntFlag{Name: "unit", Usage: "Number of provisioned units", Value: 1},
			&cli.IntFlag{Name: "partition-count", Usage: "Partitions of the backing event hub (2-128)", Value: 4},
			&cli.IntFlag{Name: "retention-day", Usage: "Event retention in days (1-7)", Value: 1},
			&cli.IntFlag{Name: "c2d-ttl", Usage: "Cloud-to-device message TTL in hours (1-48)", Value: 1},
			&cli.IntFlag{Name: "c2d-max-delivery-count", Usage: "Cloud-to-device max delivery count (1-100)", Value: 10},
			&cli.IntFlag{Name: "feedback-lock-duration", Usage: "Feedback queue lock in seconds (5-300)", Value: 5},
			&cli.IntFlag{Name: "feedback-ttl", Usage: "Feedback queue TTL in hours (1-48)", Value: 1},
			&cli.IntFlag{Name: "feedback-max-delivery-count", Usage: "Feedback max delivery count (1-100)", Value: 10},
			&cli.BoolFlag{Name: "fileupload-notifications", Usage: "Enable file upload notifications"},
			&cli.IntFlag{Name: "fileupload-notification-max-delivery-count", Usage: "File upload notification max delivery count (1-100)", Value: 10},
			&cli.IntFlag{Name: "fileupload-notification-ttl", Usage: "File upload notification TTL in hours (1-48)", Value: 1},
			&cli.StringFlag{Name: "fileupload-storage-connectionstring", Usage: "Storage connection string for file uploads"},
			&cli.StringFlag{Name: "fileupload-storage-container-name", Usage: "Storage container for file uploads"},
			&cli.IntFlag{Name: "fileupload-sas-ttl", Usage: "File upload SAS URI TTL in hours (1-24)", Value: 1},
		},
		Action: createAction,
	}
}

// validateCreateRanges rejects out-of-range numeric flags before any
// service call.
func validateCreateRanges(cmd *cli.Command) error {
	checks := []struct {
		flag      string
		low, high int
	}{
		{"retention-day", 1, 7},
		{"partition-count", 2, 128},
		{"c2d-ttl", 1, 48},
		{"c2d-max-delivery-count", 1, 100},
		{"feedback-lock-duration", 5, 300},
		{"feedback-ttl", 1, 48},
		{"feedback-max-delivery-count", 1, 100},
		{"fileupload-notification-max-delivery-count", 1, 100},
		{"fileupload-notification-ttl", 1, 48},
		{"fileupload-sas-ttl", 1, 24},
	}
	for _, check := range checks {
		if err := internal.ValidateRange(check.flag, cmd.Int(check.flag), check.low, check.high); err != nil {
			return err
		}
	}
	return nil
}

func createAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("usage: azctl iot hub create <hub-name>")
	}
	if err := validateCreateRanges(cmd); err != nil {
		return err
	}
	if cmd.String("resource-group") == "" {
		return fmt.Errorf("usage: azctl iot hub create requires --resource-group")
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &CreateRunner{
		UseCase: &usecase.CreateUseCase{Client: clients.Hub, Groups: clients.Groups},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, CreateOptions{
		Name:           cmd.Args().Get(0),
		ResourceGroup:  cmd.String("resource-group"),
		Location:       cmd.String("location"),
		SKU:            cmd.String("sku"),
		Units:          int64(cmd.Int("unit")),
		PartitionCount: int32(cmd.Int("partition-count")),
		RetentionDays:  int64(cmd.Int("retention-day")),

		C2DTTLHours:              int64(cmd.Int("c2d-ttl")),
		C2DMaxDeliveryCount:      int32(cmd.Int("c2d-max-delivery-count")),
		FeedbackLockSeconds:      int64(cmd.Int("feedback-lock-duration")),
		FeedbackTTLHours:         int64(cmd.Int("feedback-ttl")),
		FeedbackMaxDeliveryCount: int32(cmd.Int("feedback-max-delivery-count")),

		EnableFileUploadNotifications:          cmd.Bool("fileupload-notifications"),
		FileUploadNotificationMaxDeliveryCount: int32(cmd.Int("fileupload-notification-max-delivery-count")),
		FileUploadNotificationTTLHours:         int64(cmd.Int("fileupload-notification-ttl")),
		FileUploadStorageConnectionString:      cmd.String("fileupload-storage-connectionstring"),
		FileUploadStorageContainerName:         cmd.String("fileupload-storage-container-name"),
		FileUploadSASTTLHours:                  int64(cmd.Int("fileupload-sas-ttl")),

		Output: output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the hub create command.
func (r *CreateRunner) Run(ctx context.Context, opts CreateOptions) error {
	created, err := r.UseCase.Execute(ctx, usecase.CreateInput{
		Name:           opts.Name,
		ResourceGroup:  opts.ResourceGroup,
		Location:       opts.Location,
		SKU:            opts.SKU,
		Units:          opts.Units,
		PartitionCount: opts.PartitionCount,
		RetentionDays:  opts.RetentionDays,

		C2DTTLHours:              opts.C2DTTLHours,
		C2DMaxDeliveryCount:      opts.C2DMaxDeliveryCount,
		FeedbackLockSeconds:      opts.FeedbackLockSeconds,
		FeedbackTTLHours:         opts.FeedbackTTLHours,
		FeedbackMaxDeliveryCount: opts.FeedbackMaxDeliveryCount,

		EnableFileUploadNotifications:          opts.EnableFileUploadNotifications,
		FileUploadNotificationMaxDeliveryCount: opts.FileUploadNotificationMaxDeliveryCount,
		FileUploadNotificationTTLHours:         opts.FileUploadNotificationTTLHours,
		FileUploadStorageConnectionString:      opts.FileUploadStorageConnectionString,
		FileUploadStorageContainerName:         opts.FileUploadStorageContainerName,
		FileUploadSASTTLHours:                  opts.FileUploadSASTTLHours,
	})
	if err != nil {
		return err
	}

	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, created)
	}
	output.Success(r.Stdout, "Created IoT hub %s", lo.FromPtr(created.Name))
	o := output.New(r.Stdout)
	o.Field("Location", lo.FromPtr(created.Location))
	o.Field("Host name", lo.FromPtr(created.Properties.HostName))
	return nil
}
