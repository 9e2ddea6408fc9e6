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

// UpdateRunner executes the hub update command.
type UpdateRunner struct {
	UseCase *usecase.UpdateUseCase
	Stdout  io.Writer
	Stderr  io.Writer
}

// UpdateOptions holds the options for the hub update command. Nil fields
// were not set on the command line and leave the hub untouched.
type UpdateOptions struct {
	Name          string
	ResourceGroup string
	Wait          bool

	SKU           *string
	Units         *int64
	RetentionDays *int64

	C2DTTLHours              *int64
	C2DMaxDeliveryCount      *int32
	FeedbackLockSeconds      *int64
	FeedbackTTLHours         *int64
	FeedbackMaxDeliveryCount *int32

	EnableFileUploadNotifications          *bool
	FileUploadNotificationMaxDeliveryCount *int32
	FileUploadNotificationTTLHours         *int64
	FileUploadStorageConnectionString      *string
	FileUploadStorageContainerName         *string
	FileUploadSASTTLHours                  *int64

	Output output.Format
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an IoT hub's properties",
		ArgsUsage: "<hub-name>",
		Flags: []cli.Flag{
			internal.ResourceGroupFlag(),
			internal.OutputFlag(),
			internal.NoWaitFlag(),
			&cli.StringFlag{Name: "sku", Usage: "Pricing tier"},
			&cli.IntFlag{Name: "unit", Usage: "Number of provisioned units"},
			&cli.IntFlag{Name: "retention-day", Usage: "Event retention in days (1-7)"},
			&cli.IntFlag{Name: "c2d-ttl", Usage: "Cloud-to-device message TTL in hours (1-48)"},
			&cli.IntFlag{Name: "c2d-max-delivery-count", Usage: "Cloud-to-device max delivery count (1-100)"},
			&cli.IntFlag{Name: "feedback-lock-duration", Usage: "Feedback queue lock in seconds (5-300)"},
			&cli.IntFlag{Name: "feedback-ttl", Usage: "Feedback queue TTL in hours (1-48)"},
			&cli.IntFlag{Name: "feedback-max-delivery-count", Usage: "Feedback max delivery count (1-100)"},
			&cli.BoolFlag{Name: "fileupload-notifications", Usage: "Enable file upload notifications"},
			&cli.IntFlag{Name: "fileupload-notification-max-delivery-count", Usage: "File upload notification max delivery count (1-100)"},
			&cli.IntFlag{Name: "fileupload-notification-ttl", Usage: "File upload notification TTL in hours (1-48)"},
			&cli.StringFlag{Name: "fileupload-storage-connectionstring", Usage: "Storage connection string for file uploads"},
			&cli.StringFlag{Name: "fileupload-storage-container-name", Usage: "Storage container for file uploads"},
			&cli.IntFlag{Name: "fileupload-sas-ttl", Usage: "File upload SAS URI TTL in hours (1-24)"},
		},
		Action: updateAction,
	}
}

// validateUpdateRanges checks only the flags that were actually set.
func validateUpdateRanges(cmd *cli.Command) error {
	checks := []struct {
		flag      string
		low, high int
	}{
		{"retention-day", 1, 7},
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
		if !cmd.IsSet(check.flag) {
			continue
		}
		if err := internal.ValidateRange(check.flag, cmd.Int(check.flag), check.low, check.high); err != nil {
			return err
		}
	}
	return nil
}

func updateAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("usage: azctl iot hub update <hub-name>")
	}
	if err := validateUpdateRanges(cmd); err != nil {
		return err
	}

	clients, err := infra.NewClients(ctx)
	if err != nil {
		return err
	}

	r := &UpdateRunner{
		UseCase: &usecase.UpdateUseCase{Client: clients.Hub},
		Stdout:  cmd.Root().Writer,
		Stderr:  cmd.Root().ErrWriter,
	}

	return r.Run(ctx, UpdateOptions{
		Name:          cmd.Args().Get(0),
		ResourceGroup: cmd.String("resource-group"),
		Wait:          !cmd.Bool("no-wait"),

		SKU:           internal.OptionalString(cmd, "sku"),
		Units:         internal.OptionalInt64(cmd, "unit"),
		RetentionDays: internal.OptionalInt64(cmd, "retention-day"),

		C2DTTLHours:              internal.OptionalInt64(cmd, "c2d-ttl"),
		C2DMaxDeliveryCount:      internal.OptionalInt32(cmd, "c2d-max-delivery-count"),
		FeedbackLockSeconds:      internal.OptionalInt64(cmd, "feedback-lock-duration"),
		FeedbackTTLHours:         internal.OptionalInt64(cmd, "feedback-ttl"),
		FeedbackMaxDeliveryCount: internal.OptionalInt32(cmd, "feedback-max-delivery-count"),

		EnableFileUploadNotifications:          internal.OptionalBool(cmd, "fileupload-notifications"),
		FileUploadNotificationMaxDeliveryCount: internal.OptionalInt32(cmd, "fileupload-notification-max-delivery-count"),
		FileUploadNotificationTTLHours:         internal.OptionalInt64(cmd, "fileupload-notification-ttl"),
		FileUploadStorageConnectionString:      internal.OptionalString(cmd, "fileupload-storage-connectionstring"),
		FileUploadStorageContainerName:         internal.OptionalString(cmd, "fileupload-storage-container-name"),
		FileUploadSASTTLHours:                  internal.OptionalInt64(cmd, "fileupload-sas-ttl"),

		Output: output.ParseFormat(cmd.String("output")),
	})
}

// Run executes the hub update command.
func (r *UpdateRunner) Run(ctx context.Context, opts UpdateOptions) error {
	updated, err := r.UseCase.Execute(ctx, usecase.UpdateInput{
		Name:          opts.Name,
		ResourceGroup: opts.ResourceGroup,
		Wait:          opts.Wait,

		SKU:           opts.SKU,
		Units:         opts.Units,
		RetentionDays: opts.RetentionDays,

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

	if !opts.Wait {
		output.Info(r.Stdout, "Update of %s started", opts.Name)
		return nil
	}
	if opts.Output == output.FormatJSON {
		return output.JSON(r.Stdout, updated)
	}
	output.Success(r.Stdout, "Updated IoT hub %s", lo.FromPtr(updated.Name))
	return nil
}
