package record

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/rt-cli/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSingleRecord(t *testing.T) {
	created := time.Date(2014, 3, 4, 10, 15, 0, 0, time.UTC)
	ticket := protocol.NewRecord(
		"id", "ticket/7",
		"Subject", "Broken printer",
		"Created", created,
		"Requestors", []string{"a@example.com", "b@example.com"},
		"Text", "line one\nline two",
		"CF.{Severity}", "high",
	)

	output, err := Render(ticket, RenderOptions{Title: "Ticket 7"})
	require.NoError(t, err)

	assert.Contains(t, output, "Ticket 7")
	assert.Contains(t, output, "Broken printer")
	assert.Contains(t, output, "Tue Mar 04 10:15:00 2014")
	assert.Contains(t, output, "a@example.com, b@example.com")
	assert.Contains(t, output, "CF.{Severity}:")
	assert.Contains(t, output, "line two")
	assert.Less(t, strings.Index(output, "Subject:"), strings.Index(output, "Created:"))
}

func TestRenderSelectedFields(t *testing.T) {
	ticket := protocol.NewRecord("id", "ticket/7", "Subject", "Broken printer", "Queue", "General")

	output, err := Render(ticket, RenderOptions{Fields: []string{"Queue", "Missing"}})
	require.NoError(t, err)

	assert.Contains(t, output, "General")
	assert.NotContains(t, output, "Broken printer")
	assert.NotContains(t, output, "Missing")
}

func TestRenderMultiRecord(t *testing.T) {
	tickets := protocol.MultiRecord{
		protocol.NewRecord("id", "ticket/1", "Subject", "one", "Queue", "General"),
		protocol.NewRecord("id", "ticket/2", "Subject", "two", "Queue", "Support"),
	}

	output, err := Render(tickets, RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "tickets: 2")
	assert.Contains(t, output, "ticket/1  one")
	assert.Contains(t, output, "ticket/2  two")
	assert.Contains(t, output, "Support")
}

func TestRenderSummary(t *testing.T) {
	results := protocol.NewRecord("12", "Printer", "3", "Coffee machine")

	output, err := Render(results, RenderOptions{Summary: true})
	require.NoError(t, err)

	assert.Contains(t, output, "tickets: 2")
	assert.Contains(t, output, "12  Printer")
	assert.Contains(t, output, "3   Coffee machine")
}

func TestRenderEmptyBodies(t *testing.T) {
	output, err := Render(protocol.MultiRecord{}, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "No tickets matched.")

	output, err = Render(protocol.NewRecord(), RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "No fields.")

	output, err = Render(protocol.NewRecord(), RenderOptions{Summary: true})
	require.NoError(t, err)
	assert.Contains(t, output, "tickets: 0")
	assert.Contains(t, output, "No tickets matched.")
}
