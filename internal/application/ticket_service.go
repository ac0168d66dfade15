package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/rt-cli/internal/ports"
	"github.com/bnema/rt-cli/internal/protocol"
	"golang.org/x/sync/errgroup"
)

// TaskRunner runs a named operation and waits for its result.
type TaskRunner interface {
	CallAndWait(operation string, args []any, kwargs map[string]any) (any, error)
}

var _ TaskRunner = (*Dispatcher)(nil)

type TicketService struct {
	runner      TaskRunner
	concurrency int
}

// NewTicketService runs operations through runner. concurrency caps how many
// fetches GetTickets has in flight; zero or less leaves it unbounded.
func NewTicketService(runner TaskRunner, concurrency int) *TicketService {
	return &TicketService{runner: runner, concurrency: concurrency}
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*protocol.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireTicketID(id); err != nil {
		return nil, err
	}

	result, err := s.runner.CallAndWait(ports.OperationGetTicket, []any{id}, nil)
	if err != nil {
		return nil, fmt.Errorf("get ticket %s: %w", id, err)
	}
	return asRecord(result)
}

// GetTickets fetches tickets concurrently, returning them in the order of
// ids. At most the service's concurrency fetches are in flight; once one
// fails, ids not yet started are skipped.
func (s *TicketService) GetTickets(ctx context.Context, ids []string) ([]*protocol.Record, error) {
	records := make([]*protocol.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, id := range ids {
		g.Go(func() error {
			record, err := s.GetTicket(gctx, id)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

// CreateTicket creates a ticket from fields and returns the new ticket id.
// A missing Queue field falls back to the profile's default queue.
func (s *TicketService) CreateTicket(ctx context.Context, fields *protocol.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fields == nil {
		fields = protocol.NewRecord()
	}

	result, err := s.runner.CallAndWait(ports.OperationCreateTicket, []any{fields.Clone()}, nil)
	if err != nil {
		return "", fmt.Errorf("create ticket: %w", err)
	}
	return asTicketID(result)
}

func (s *TicketService) UpdateTicket(ctx context.Context, id string, fields *protocol.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := requireTicketID(id); err != nil {
		return "", err
	}
	if fields == nil || fields.Len() == 0 {
		return "", fmt.Errorf("%w: no fields to update", ErrInvalidArgument)
	}

	result, err := s.runner.CallAndWait(ports.OperationUpdateTicket, []any{id, fields.Clone()}, nil)
	if err != nil {
		return "", fmt.Errorf("update ticket %s: %w", id, err)
	}
	return asTicketID(result)
}

// Search runs a TicketSQL query. The short format yields a *protocol.Record
// of id/subject pairs, the long format a protocol.MultiRecord.
func (s *TicketService) Search(ctx context.Context, query SearchQuery) (protocol.Body, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidArgument)
	}
	if query.Format == "" {
		query.Format = SearchFormatShort
	}
	if !query.Format.Valid() {
		return nil, fmt.Errorf("%w: unsupported search format %q", ErrInvalidArgument, query.Format)
	}

	kwargs := map[string]any{"format": string(query.Format)}
	if query.OrderBy != "" {
		kwargs["orderby"] = query.OrderBy
	}

	result, err := s.runner.CallAndWait(ports.OperationSearch, []any{query.Query}, kwargs)
	if err != nil {
		return nil, fmt.Errorf("search tickets: %w", err)
	}

	body, ok := result.(protocol.Body)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedResult, result)
	}
	return body, nil
}

func requireTicketID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: ticket id is required", ErrInvalidArgument)
	}
	return nil
}

func asRecord(result any) (*protocol.Record, error) {
	record, ok := result.(*protocol.Record)
	if !ok || record == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedResult, result)
	}
	return record, nil
}

func asTicketID(result any) (string, error) {
	id, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnexpectedResult, result)
	}
	return id, nil
}
