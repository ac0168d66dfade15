package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializerDeserializeConvertsKnownFields(t *testing.T) {
	t.Parallel()

	raw := NewRecord(
		"id", "ticket/7",
		"Created", "Tue Mar 04 10:15:00 2014",
		"LastUpdated", "",
		"Requestors", "alice@example.com, bob@example.com,",
	)

	record, err := NewSerializer().Deserialize(raw)
	require.NoError(t, err)

	created, ok := record.Get("Created")
	require.True(t, ok)
	assert.Equal(t, time.Date(2014, time.March, 4, 10, 15, 0, 0, time.UTC), created)

	updated, ok := record.Get("LastUpdated")
	require.True(t, ok)
	assert.Nil(t, updated)

	requestors, _ := record.Get("Requestors")
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, requestors)

	assert.Equal(t, "ticket/7", record.GetString("id"))
	assert.Equal(t, "Tue Mar 04 10:15:00 2014", raw.GetString("Created"), "input record is left untouched")
}

func TestSerializerDeserializeEmptyList(t *testing.T) {
	t.Parallel()

	record, err := NewSerializer().Deserialize(NewRecord("Requestors", ""))
	require.NoError(t, err)

	requestors, _ := record.Get("Requestors")
	assert.Equal(t, []string{}, requestors)
}

func TestSerializerDeserializeConversionError(t *testing.T) {
	t.Parallel()

	_, err := NewSerializer().Deserialize(NewRecord("Created", "next tuesday"))

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "Created", convErr.Field)
	assert.Equal(t, "next tuesday", convErr.Value)
	assert.Equal(t, FieldTypeDatetime, convErr.Type)
	assert.NotEmpty(t, convErr.Formats)
}

func TestSerializerAcceptsCustomLayouts(t *testing.T) {
	t.Parallel()

	s := NewSerializer()
	s.Conversions["Due"] = FieldTypeDatetime
	s.DatetimeLayouts = []string{"02/01/2006"}

	record, err := s.Deserialize(NewRecord("Due", "31/12/2020"))
	require.NoError(t, err)

	due, _ := record.Get("Due")
	assert.Equal(t, time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC), due)
}

func TestSerializerSerialize(t *testing.T) {
	t.Parallel()

	record := NewRecord(
		"id", "ticket/new",
		"Queue", " General ",
		"Requestors", []string{"alice@example.com", "bob@example.com"},
		"Created", time.Date(2014, time.March, 4, 10, 15, 0, 0, time.UTC),
		"Starts", nil,
		"Text", "first line\nsecond line",
		"CF.{Priority}", 3,
	)

	want := "id: ticket/new\n" +
		"Queue: General\n" +
		"Requestors: alice@example.com, bob@example.com\n" +
		"Created: Tue Mar 04 10:15:00 2014\n" +
		"Starts: \n" +
		"Text: first line\n second line\n" +
		"CF.{Priority}: 3\n"

	assert.Equal(t, want, record.Serialize(nil))
}

func TestSerializeThenParseRoundTrip(t *testing.T) {
	t.Parallel()

	record := NewRecord(
		"id", "ticket/12",
		"Subject", "Printer on fire",
		"Text", "It is\nreally on fire\n\nThe second floor too.",
		"CF.{Severity}", "high",
	)

	parsed, err := ParseRecordString(record.Serialize(nil))
	require.NoError(t, err)

	assert.Equal(t, record.Keys(), parsed.Keys())
	for name, value := range record.All() {
		assert.Equal(t, value, parsed.GetString(name), name)
	}
}

func TestSerializeWritesTimestampsInUTC(t *testing.T) {
	t.Parallel()

	paris := time.FixedZone("CET", 3600)
	created := time.Date(2014, time.March, 4, 11, 15, 0, 0, paris)
	record := NewRecord("Created", created, "LastUpdated", &created)

	assert.Equal(t, "Created: Tue Mar 04 10:15:00 2014\nLastUpdated: Tue Mar 04 10:15:00 2014\n", record.Serialize(nil))

	parsed, err := ParseRecordString(record.Serialize(nil))
	require.NoError(t, err)
	back, err := NewSerializer().Deserialize(parsed)
	require.NoError(t, err)
	got, ok := back.Get("Created")
	require.True(t, ok)
	assert.True(t, created.Equal(got.(time.Time)), "got %v, want %v", got, created)
}

func TestMultiRecordSerializeThenParse(t *testing.T) {
	t.Parallel()

	records := MultiRecord{
		NewRecord("id", "1", "Subject", "one"),
		NewRecord("id", "2", "Subject", "two"),
	}

	text := records.Serialize(nil)
	assert.Equal(t, "id: 1\nSubject: one\n\n--\n\nid: 2\nSubject: two\n", text)

	parsed, err := ParseMultiRecord(SplitLines(text))
	require.NoError(t, err)
	require.Equal(t, 2, parsed.Len())
	assert.Equal(t, "two", parsed.At(1).GetString("Subject"))
}

func TestMultiRecordDeserializeReportsPart(t *testing.T) {
	t.Parallel()

	records := MultiRecord{
		NewRecord("Created", ""),
		NewRecord("Created", "garbage"),
	}

	_, err := records.Deserialize(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part 1")

	var convErr *ConversionError
	assert.ErrorAs(t, err, &convErr)
}
