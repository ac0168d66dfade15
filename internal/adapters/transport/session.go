package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bnema/rt-cli/internal/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxResponseBytes      = 16 << 20
)

type Options struct {
	// HTTPClient supplies the transport and timeout. Its jar and redirect
	// policy are replaced.
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Session is one cookie-authenticated conversation with the REST endpoint.
// Redirects are never followed: a redirect on a protected path is how the
// server says the session is missing or expired.
type Session struct {
	baseURL        *url.URL
	client         *http.Client
	requestTimeout time.Duration
	logger         *zap.Logger

	mu       sync.Mutex
	loggedIn bool
}

func NewSession(baseURL *url.URL, opts Options) (*Session, error) {
	if baseURL == nil {
		return nil, errors.New("base url is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	client := &http.Client{}
	if opts.HTTPClient != nil {
		client.Transport = opts.HTTPClient.Transport
		client.Timeout = opts.HTTPClient.Timeout
	}
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	base := *baseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return &Session{
		baseURL:        &base,
		client:         client,
		requestTimeout: opts.RequestTimeout,
		logger:         opts.Logger,
	}, nil
}

// Request describes one call relative to the session's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	// Anonymous requests may be sent without logging in first.
	Anonymous bool
	// AcceptableStatus defaults to 200 only.
	AcceptableStatus []int
	Multipart        bool
	Serializer       *protocol.Serializer
}

type rawResponse struct {
	statusCode int
	text       string
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Session) setLoggedIn(v bool) {
	s.mu.Lock()
	s.loggedIn = v
	s.mu.Unlock()
}

// Login posts the credentials. It returns false without a request when the
// session is already logged in. The server answers bad credentials with a
// redirect.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	if s.LoggedIn() {
		return false, nil
	}

	form := url.Values{}
	form.Set("user", username)
	form.Set("pass", password)

	resp, err := s.send(ctx, Request{
		Method:           http.MethodPost,
		Form:             form,
		Anonymous:        true,
		AcceptableStatus: []int{http.StatusOK, http.StatusFound},
	})
	if err != nil {
		return false, err
	}
	if resp.statusCode == http.StatusFound {
		s.Close()
		return false, protocol.NewAuthenticationError("could not log in with the supplied credentials")
	}

	s.setLoggedIn(true)
	return true, nil
}

// Logout ends the session. It returns false without a request when there is
// no session, and false when the server did not confirm the logout.
func (s *Session) Logout(ctx context.Context) (bool, error) {
	if !s.LoggedIn() {
		return false, nil
	}

	resp, err := s.send(ctx, Request{
		Method:           http.MethodPost,
		Path:             "logout",
		Anonymous:        true,
		AcceptableStatus: []int{http.StatusOK, http.StatusFound},
	})
	s.Close()
	s.setLoggedIn(false)
	if err != nil {
		return false, err
	}
	return resp.statusCode == http.StatusOK, nil
}

// Close drops idle connections.
func (s *Session) Close() {
	s.client.CloseIdleConnections()
}

// Do sends req and parses the body as a protocol response.
func (s *Session) Do(ctx context.Context, req Request) (*protocol.Response, error) {
	raw, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := protocol.ParseResponse(raw.text, protocol.ParseOptions{
		Multipart:  req.Multipart,
		Serializer: req.Serializer,
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s %s response: %w", req.Method, req.Path, err)
	}

	s.logger.Debug("response parsed",
		zap.String("path", req.Path),
		zap.Int("rt_status", resp.StatusCode),
		zap.String("rt_reason", resp.Reason),
		zap.Strings("details", resp.Details),
	)
	return resp, nil
}

func (s *Session) Get(ctx context.Context, path string, query url.Values, multipart bool) (*protocol.Response, error) {
	return s.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Multipart: multipart})
}

func (s *Session) Post(ctx context.Context, path string, form url.Values) (*protocol.Response, error) {
	return s.Do(ctx, Request{Method: http.MethodPost, Path: path, Form: form})
}

func (s *Session) URLFor(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse request path: %w", err)
	}
	return s.baseURL.ResolveReference(ref), nil
}

func (s *Session) send(ctx context.Context, req Request) (rawResponse, error) {
	endpoint, err := s.URLFor(req.Path)
	if err != nil {
		return rawResponse{}, err
	}
	if len(req.Query) > 0 {
		endpoint.RawQuery = req.Query.Encode()
	}

	if !req.Anonymous && !s.LoggedIn() {
		return rawResponse{}, protocol.NewAuthenticationError("login required for %s %s", req.Method, endpoint.Redacted())
	}

	requestCtx, cancel := s.requestContext(ctx)
	defer cancel()

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}
	httpReq, err := http.NewRequestWithContext(requestCtx, req.Method, endpoint.String(), body)
	if err != nil {
		return rawResponse{}, fmt.Errorf("create %s request: %w", req.Method, err)
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return rawResponse{}, fmt.Errorf("%s %s: %w", req.Method, endpoint.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return rawResponse{}, fmt.Errorf("read %s %s response: %w", req.Method, endpoint.Redacted(), err)
	}
	text := string(data)

	s.logRequest(req.Method, endpoint, resp, text)

	acceptable := req.AcceptableStatus
	if len(acceptable) == 0 {
		acceptable = []int{http.StatusOK}
	}
	if !slices.Contains(acceptable, resp.StatusCode) {
		if resp.StatusCode == http.StatusFound {
			// The redirect body is a login page; it says nothing useful.
			return rawResponse{}, protocol.NewAuthenticationError("not authorized (session probably expired)")
		}
		return rawResponse{}, &protocol.UnexpectedStatusError{StatusCode: resp.StatusCode, Content: text}
	}

	return rawResponse{statusCode: resp.StatusCode, text: text}, nil
}

func (s *Session) logRequest(method string, endpoint *url.URL, resp *http.Response, text string) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", endpoint.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.String("reason", strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))),
	}
	if ce := s.logger.Check(zapcore.DebugLevel, "request"); ce != nil {
		ce.Write(append(fields, zap.String("body", indent(text, " ")))...)
		return
	}
	s.logger.Info("request", fields...)
}

func (s *Session) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
