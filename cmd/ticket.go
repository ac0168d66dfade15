package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	recordrender "github.com/bnema/rt-cli/internal/adapters/render/record"
	"github.com/bnema/rt-cli/internal/application"
	"github.com/bnema/rt-cli/internal/protocol"
	"github.com/spf13/cobra"
)

type ticketFlags struct {
	profile string
	raw     bool
}

func newTicketCmd(app *app) *cobra.Command {
	flags := &ticketFlags{}

	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Show, create, edit and search tickets",
	}
	cmd.PersistentFlags().StringVar(&flags.profile, "profile", "", "Profile to use (defaults to the configured profile)")
	cmd.PersistentFlags().BoolVar(&flags.raw, "raw", false, "Print REST wire format instead of the rendered view")

	cmd.AddCommand(
		newTicketShowCmd(app, flags),
		newTicketCreateCmd(app, flags),
		newTicketEditCmd(app, flags),
		newTicketSearchCmd(app, flags),
	)

	return cmd
}

// withTickets runs fn against a ticket service for the selected profile,
// behind a progress line unless raw output was asked for.
func withTickets(cmd *cobra.Command, app *app, flags *ticketFlags, progress ticketProgress, fn func(context.Context, *application.TicketService) error) (err error) {
	profile, err := app.resolveProfile(cmd.Context(), flags.profile)
	if err != nil {
		return err
	}
	progress.profile = string(profile)

	service, closeService, err := app.ticketService(cmd.Context(), string(profile))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeService(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	run := func(ctx context.Context) error {
		return fn(ctx, service)
	}
	if flags.raw {
		return run(cmd.Context())
	}
	return runWithProgress(cmd.Context(), cmd.ErrOrStderr(), progress, run)
}

func newTicketShowCmd(app *app, flags *ticketFlags) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "show <id>...",
		Short: "Show one or more tickets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []*protocol.Record
			err := withTickets(cmd, app, flags, ticketProgress{action: "Fetching", tickets: len(args)}, func(ctx context.Context, tickets *application.TicketService) error {
				var err error
				records, err = tickets.GetTickets(ctx, args)
				return err
			})
			if err != nil {
				return err
			}

			var body protocol.Body = protocol.MultiRecord(records)
			if len(records) == 1 {
				body = records[0]
			}
			return writeBody(cmd, app, flags, body, recordrender.RenderOptions{Fields: fields})
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Only show these fields")

	return cmd
}

type editFlags struct {
	fields       []string
	customFields []string
	text         string
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.fields, "field", nil, "Field to set, as Key=Value (repeatable)")
	cmd.Flags().StringArrayVar(&f.customFields, "cf", nil, "Custom field to set, as Name=Value (repeatable)")
	cmd.Flags().StringVar(&f.text, "text", "", "Ticket text")
}

func (f *editFlags) record() (*protocol.Record, error) {
	record := protocol.NewRecord()
	for _, raw := range f.fields {
		key, value, err := splitAssignment(raw)
		if err != nil {
			return nil, err
		}
		record.Set(key, value)
	}
	for _, raw := range f.customFields {
		name, value, err := splitAssignment(raw)
		if err != nil {
			return nil, err
		}
		if err := record.CustomFields().Set(name, value); err != nil {
			return nil, fmt.Errorf("--cf %s: %w", raw, err)
		}
	}
	if f.text != "" {
		record.Set("Text", f.text)
	}
	return record, nil
}

func splitAssignment(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid assignment %q: expected Key=Value", raw)
	}
	return key, value, nil
}

func newTicketCreateCmd(app *app, flags *ticketFlags) *cobra.Command {
	edit := &editFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := edit.record()
			if err != nil {
				return err
			}
			if fields.Len() == 0 {
				return errors.New("nothing to create: pass --field, --cf or --text")
			}

			var id string
			err = withTickets(cmd, app, flags, ticketProgress{action: "Creating", tickets: 1}, func(ctx context.Context, tickets *application.TicketService) error {
				var err error
				id, err = tickets.CreateTicket(ctx, fields)
				return err
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ticket %s created\n", id)
			return err
		},
	}
	edit.register(cmd)

	return cmd
}

func newTicketEditCmd(app *app, flags *ticketFlags) *cobra.Command {
	edit := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update fields of a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := edit.record()
			if err != nil {
				return err
			}
			if fields.Len() == 0 {
				return errors.New("nothing to update: pass --field, --cf or --text")
			}

			var id string
			err = withTickets(cmd, app, flags, ticketProgress{action: "Updating", tickets: 1}, func(ctx context.Context, tickets *application.TicketService) error {
				var err error
				id, err = tickets.UpdateTicket(ctx, args[0], fields)
				return err
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ticket %s updated\n", id)
			return err
		},
	}
	edit.register(cmd)

	return cmd
}

func newTicketSearchCmd(app *app, flags *ticketFlags) *cobra.Command {
	var format string
	var orderBy string
	var fields []string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tickets with a TicketSQL query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := application.SearchQuery{
				Query:   args[0],
				Format:  application.SearchFormat(format),
				OrderBy: orderBy,
			}

			var body protocol.Body
			err := withTickets(cmd, app, flags, ticketProgress{action: "Searching"}, func(ctx context.Context, tickets *application.TicketService) error {
				var err error
				body, err = tickets.Search(ctx, query)
				return err
			})
			if err != nil {
				return err
			}

			return writeBody(cmd, app, flags, body, recordrender.RenderOptions{
				Fields:  fields,
				Summary: query.Format != application.SearchFormatLong,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(application.SearchFormatShort), "Result format: s (id and subject) or l (all fields)")
	cmd.Flags().StringVar(&orderBy, "orderby", "", "Sort field, prefix with - for descending")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Only show these fields (long format)")

	return cmd
}

func writeBody(cmd *cobra.Command, app *app, flags *ticketFlags, body protocol.Body, opts recordrender.RenderOptions) error {
	if flags.raw {
		_, err := fmt.Fprint(cmd.OutOrStdout(), body.Serialize(app.serializer))
		return err
	}

	rendered, err := app.renderer(body, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
