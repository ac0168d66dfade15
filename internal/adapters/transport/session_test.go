package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bnema/rt-cli/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const restPrefix = "/REST/1.0/"

type fakeRT struct {
	requests atomic.Int32
	expired  atomic.Bool
}

func (f *fakeRT) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		path := strings.TrimPrefix(r.URL.Path, restPrefix)

		authed := false
		if cookie, err := r.Cookie("RT_SID"); err == nil && cookie.Value == "session-1" && !f.expired.Load() {
			authed = true
		}

		switch {
		case path == "" && r.Method == http.MethodPost:
			if err := r.ParseForm(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if r.PostForm.Get("user") != "alice" || r.PostForm.Get("pass") != "s3cret" {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "RT_SID", Value: "session-1", Path: "/"})
			_, _ = w.Write([]byte("RT/4.0.5 200 Ok\n\n"))
		case path == "logout":
			_, _ = w.Write([]byte("RT/4.0.5 200 Ok\n\n"))
		case !authed:
			http.Redirect(w, r, "/NoAuth/Login.html", http.StatusFound)
		case path == "ticket/1/show":
			_, _ = w.Write([]byte("RT/4.0.5 200 Ok\n\nid: ticket/1\nSubject: Printer on fire\nCreated: Tue Mar 04 10:15:00 2014\n"))
		case path == "search/ticket":
			if r.URL.Query().Get("format") != "l" {
				http.Error(w, "bad format", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("RT/4.0.5 200 Ok\n\nid: ticket/1\nSubject: one\n\n--\n\nid: ticket/2\nSubject: two\n"))
		case path == "boom":
			http.Error(w, "internal error", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestSession(t *testing.T, logger *zap.Logger) (*Session, *fakeRT) {
	t.Helper()

	rt := &fakeRT{}
	server := httptest.NewServer(rt.handler())
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL + restPrefix)
	require.NoError(t, err)

	session, err := NewSession(base, Options{HTTPClient: server.Client(), Logger: logger})
	require.NoError(t, err)
	return session, rt
}

func TestSessionLoginAndGet(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, nil)

	loggedIn, err := session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.True(t, loggedIn)
	assert.True(t, session.LoggedIn())

	again, err := session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.False(t, again)

	resp, err := session.Get(context.Background(), "ticket/1/show", nil, false)
	require.NoError(t, err)
	record, ok := resp.Record()
	require.True(t, ok)
	assert.Equal(t, "Printer on fire", record.GetString("Subject"))

	created, _ := record.Get("Created")
	assert.NotNil(t, created)
}

func TestSessionLoginRejectedCredentials(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, nil)

	ok, err := session.Login(context.Background(), "alice", "wrong")
	assert.False(t, ok)
	var authErr *protocol.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "supplied credentials")
	assert.False(t, session.LoggedIn())
}

func TestSessionRequiresLoginBeforeProtectedRequests(t *testing.T) {
	t.Parallel()

	session, rt := newTestSession(t, nil)

	_, err := session.Get(context.Background(), "ticket/1/show", nil, false)
	require.True(t, protocol.IsAuthenticationError(err))
	assert.Zero(t, rt.requests.Load())
}

func TestSessionRedirectMeansExpiredSession(t *testing.T) {
	t.Parallel()

	session, rt := newTestSession(t, nil)
	_, err := session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	rt.expired.Store(true)

	_, err = session.Get(context.Background(), "ticket/1/show", nil, false)
	var authErr *protocol.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "session probably expired")
}

func TestSessionUnexpectedStatus(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, nil)
	_, err := session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	_, err = session.Get(context.Background(), "boom", nil, false)
	var statusErr *protocol.UnexpectedStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Content, "internal error")
}

func TestSessionMultipartQuery(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, nil)
	_, err := session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	query := url.Values{}
	query.Set("query", "Queue = 'General'")
	query.Set("format", "l")

	resp, err := session.Get(context.Background(), "search/ticket", query, true)
	require.NoError(t, err)
	records, ok := resp.Records()
	require.True(t, ok)
	require.Equal(t, 2, records.Len())
	assert.Equal(t, "two", records.At(1).GetString("Subject"))
}

func TestSessionLogout(t *testing.T) {
	t.Parallel()

	session, rt := newTestSession(t, nil)

	out, err := session.Logout(context.Background())
	require.NoError(t, err)
	assert.False(t, out)
	assert.Zero(t, rt.requests.Load())

	_, err = session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	out, err = session.Logout(context.Background())
	require.NoError(t, err)
	assert.True(t, out)
	assert.False(t, session.LoggedIn())
}

func TestSessionLogsRequests(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	session, _ := newTestSession(t, zap.New(core))

	_, err := session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotContains(t, fields, "body")
}

func TestSessionDebugLogIncludesIndentedBody(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	session, _ := newTestSession(t, zap.New(core))

	_, err := session.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, " RT/4.0.5 200 Ok\n\n", entries[0].ContextMap()["body"])
}

func TestSessionURLFor(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://rt.example.com/REST/1.0")
	require.NoError(t, err)
	session, err := NewSession(base, Options{})
	require.NoError(t, err)

	u, err := session.URLFor("ticket/5/edit")
	require.NoError(t, err)
	assert.Equal(t, "https://rt.example.com/REST/1.0/ticket/5/edit", u.String())

	u, err = session.URLFor("")
	require.NoError(t, err)
	assert.Equal(t, "https://rt.example.com/REST/1.0/", u.String())
}
