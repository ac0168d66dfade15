package rt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/rt-cli/internal/adapters/transport"
	"github.com/bnema/rt-cli/internal/domain"
	"github.com/bnema/rt-cli/internal/ports"
	"github.com/bnema/rt-cli/internal/protocol"
	"go.uber.org/zap"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrBadArguments     = errors.New("bad operation arguments")
)

type Config struct {
	Profile        domain.Profile
	Password       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Serializer     *protocol.Serializer
	Logger         *zap.Logger
}

// Interface runs ticket operations against one RT server. Logging out
// discards the HTTP session, so the next login starts from a clean cookie
// jar.
type Interface struct {
	cfg     Config
	baseURL *url.URL
	session *transport.Session
}

var _ ports.Operator = (*Interface)(nil)

func New(cfg Config) (*Interface, error) {
	baseURL, err := cfg.Profile.BaseURL()
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", cfg.Profile.ID, err)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	i := &Interface{cfg: cfg, baseURL: baseURL}
	if err := i.newSession(); err != nil {
		return nil, err
	}
	return i, nil
}

// NewFactory returns an OperatorFactory building one Interface per call.
func NewFactory(cfg Config) ports.OperatorFactory {
	return func() (ports.Operator, error) {
		return New(cfg)
	}
}

func (i *Interface) newSession() error {
	if i.session != nil {
		i.session.Close()
	}
	session, err := transport.NewSession(i.baseURL, transport.Options{
		HTTPClient:     i.cfg.HTTPClient,
		RequestTimeout: i.cfg.RequestTimeout,
		Logger:         i.cfg.Logger,
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	i.session = session
	return nil
}

func (i *Interface) LoggedIn() bool {
	return i.session.LoggedIn()
}

func (i *Interface) Login(ctx context.Context) (bool, error) {
	return i.session.Login(ctx, i.cfg.Profile.Username, i.cfg.Password)
}

func (i *Interface) Logout(ctx context.Context) (bool, error) {
	result, err := i.session.Logout(ctx)
	if err != nil {
		return result, err
	}
	if err := i.newSession(); err != nil {
		return result, err
	}
	return result, nil
}

func (i *Interface) Perform(ctx context.Context, operation string, args []any, kwargs map[string]any) (any, error) {
	switch operation {
	case ports.OperationGetTicket:
		id, err := ticketIDArg(operation, args, 0)
		if err != nil {
			return nil, err
		}
		return i.GetTicket(ctx, id)

	case ports.OperationCreateTicket:
		fields, err := recordArg(operation, args, 0)
		if err != nil {
			return nil, err
		}
		return i.CreateTicket(ctx, fields)

	case ports.OperationUpdateTicket:
		id, err := ticketIDArg(operation, args, 0)
		if err != nil {
			return nil, err
		}
		fields, err := recordArg(operation, args, 1)
		if err != nil {
			return nil, err
		}
		return i.UpdateTicket(ctx, id, fields)

	case ports.OperationSearch:
		query, err := stringArg(operation, args, 0)
		if err != nil {
			return nil, err
		}
		format, _ := kwargs["format"].(string)
		orderBy, _ := kwargs["orderby"].(string)
		return i.Search(ctx, query, format, orderBy)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}
}

// GetTicket fetches all fields of one ticket.
func (i *Interface) GetTicket(ctx context.Context, id string) (*protocol.Record, error) {
	resp, err := i.session.Do(ctx, transport.Request{
		Method:     http.MethodGet,
		Path:       fmt.Sprintf("ticket/%s/show", id),
		Serializer: i.cfg.Serializer,
	})
	if err != nil {
		return nil, err
	}

	if _, notFound := matchDetail(ticketNotFoundRE, resp.Details); notFound {
		return nil, &protocol.TicketNotFoundError{TicketID: id}
	}

	record, ok := resp.Record()
	if !ok {
		return nil, &protocol.OperationError{Operation: "get ticket", Content: resp.Content, Detail: "response has no record body"}
	}
	return record, nil
}

// CreateTicket creates a ticket and returns its id. The Queue field, when
// absent, defaults to the profile's default queue.
func (i *Interface) CreateTicket(ctx context.Context, fields *protocol.Record) (string, error) {
	const path = "ticket/new"

	data := fields.Clone()
	queue := i.cfg.Profile.DefaultQueue
	if data.Has("Queue") {
		queue = data.GetString("Queue")
		data.Delete("Queue")
	}

	content := protocol.NewRecord("id", path, "Queue", queue)
	content.Update(data)

	return i.submit(ctx, path, content, ticketCreatedRE, "create ticket")
}

// UpdateTicket edits fields of an existing ticket and returns its id.
func (i *Interface) UpdateTicket(ctx context.Context, id string, fields *protocol.Record) (string, error) {
	path := fmt.Sprintf("ticket/%s/edit", id)

	content := protocol.NewRecord("id", path)
	content.Update(fields)

	return i.submit(ctx, path, content, ticketUpdatedRE, "update ticket")
}

func (i *Interface) submit(ctx context.Context, path string, content *protocol.Record, confirm *regexp.Regexp, operation string) (string, error) {
	text := content.Serialize(i.cfg.Serializer)

	form := url.Values{}
	form.Set("content", text)

	resp, err := i.session.Do(ctx, transport.Request{
		Method:     http.MethodPost,
		Path:       path,
		Form:       form,
		Serializer: i.cfg.Serializer,
	})
	if err != nil {
		return "", err
	}

	if id, ok := matchDetail(confirm, resp.Details); ok {
		return id, nil
	}
	return "", &protocol.OperationError{Operation: operation, Content: text, Detail: resp.Detail()}
}

// Search runs a TicketSQL query. Format "l" returns every field of every
// match as a MultiRecord; any other format is sent as given and parsed as a
// single record.
func (i *Interface) Search(ctx context.Context, query, format, orderBy string) (protocol.Body, error) {
	if format == "" {
		format = "s"
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", format)
	if orderBy != "" {
		params.Set("orderby", orderBy)
	}

	resp, err := i.session.Do(ctx, transport.Request{
		Method:     http.MethodGet,
		Path:       "search/ticket",
		Query:      params,
		Multipart:  format == "l",
		Serializer: i.cfg.Serializer,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func ticketIDArg(operation string, args []any, index int) (string, error) {
	if index >= len(args) {
		return "", fmt.Errorf("%w: %s needs a ticket id at position %d", ErrBadArguments, operation, index)
	}
	switch v := args[index].(type) {
	case string:
		id := strings.TrimPrefix(strings.TrimSpace(v), "ticket/")
		if id == "" {
			return "", fmt.Errorf("%w: %s: empty ticket id", ErrBadArguments, operation)
		}
		return id, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("%w: %s: ticket id is %T", ErrBadArguments, operation, v)
	}
}

func stringArg(operation string, args []any, index int) (string, error) {
	if index >= len(args) {
		return "", fmt.Errorf("%w: %s needs an argument at position %d", ErrBadArguments, operation, index)
	}
	s, ok := args[index].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: argument %d is %T, not string", ErrBadArguments, operation, index, args[index])
	}
	return s, nil
}

func recordArg(operation string, args []any, index int) (*protocol.Record, error) {
	if index >= len(args) {
		return nil, fmt.Errorf("%w: %s needs a record at position %d", ErrBadArguments, operation, index)
	}
	record, ok := args[index].(*protocol.Record)
	if !ok || record == nil {
		return nil, fmt.Errorf("%w: %s: argument %d is %T, not *protocol.Record", ErrBadArguments, operation, index, args[index])
	}
	return record, nil
}
