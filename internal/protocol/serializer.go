package protocol

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

// FieldType names the typed form a field converts to on deserialization.
type FieldType string

const (
	FieldTypeDatetime FieldType = "datetime"
	FieldTypeList     FieldType = "list"
)

// DatetimeLayout is the layout the server uses for timestamps and the one
// used when serializing time.Time values.
const DatetimeLayout = "Mon Jan 02 15:04:05 2006"

// DefaultDatetimeLayouts are tried in order; the first match wins.
var DefaultDatetimeLayouts = []string{
	DatetimeLayout,
	"Mon Jan _2 15:04:05 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Serializer converts records between raw wire strings and typed values,
// and renders records as wire text.
type Serializer struct {
	Conversions     map[string]FieldType
	MultilineFields []string
	DatetimeLayouts []string
}

func NewSerializer() *Serializer {
	return &Serializer{
		Conversions: map[string]FieldType{
			"Created":     FieldTypeDatetime,
			"LastUpdated": FieldTypeDatetime,
			"Requestors":  FieldTypeList,
		},
		MultilineFields: []string{"Text"},
		DatetimeLayouts: slices.Clone(DefaultDatetimeLayouts),
	}
}

var defaultSerializer = NewSerializer()

func serializerOrDefault(s *Serializer) *Serializer {
	if s == nil {
		return defaultSerializer
	}
	return s
}

// Deserialize returns a new record with every field in the conversion table
// converted to its declared type. Other fields pass through unchanged.
func (s *Serializer) Deserialize(raw *Record) (*Record, error) {
	out := NewRecord()
	for name, value := range raw.All() {
		fieldType, ok := s.Conversions[name]
		if !ok {
			out.Set(name, value)
			continue
		}

		converted, err := s.convert(fieldType, value)
		if err != nil {
			if convErr, ok := err.(*ConversionError); ok {
				convErr.Field = name
			}
			return nil, err
		}
		out.Set(name, converted)
	}
	return out, nil
}

func (s *Serializer) convert(fieldType FieldType, value any) (any, error) {
	raw, ok := value.(string)
	if !ok {
		return nil, &ConversionError{Value: fmt.Sprint(value), Type: fieldType}
	}

	switch fieldType {
	case FieldTypeDatetime:
		return s.ConvertDatetime(raw)
	case FieldTypeList:
		return ConvertList(raw), nil
	default:
		return nil, &ConversionError{Value: raw, Type: fieldType}
	}
}

// ConvertDatetime parses raw with the configured layouts. An empty string
// converts to nil.
func (s *Serializer) ConvertDatetime(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	layouts := s.DatetimeLayouts
	if len(layouts) == 0 {
		layouts = DefaultDatetimeLayouts
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}

	return nil, &ConversionError{Value: raw, Type: FieldTypeDatetime, Formats: slices.Clone(layouts)}
}

// ConvertList splits a comma-separated value, trimming items and dropping
// empty ones.
func ConvertList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Serialize renders the record as wire text: one "name: value" line per
// field followed by a single blank line.
func (s *Serializer) Serialize(r *Record) string {
	lines := make([]string, 0, r.Len()+1)
	for name, value := range r.All() {
		lines = append(lines, name+": "+s.formatValue(name, value))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (s *Serializer) formatValue(name string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return s.formatScalar(name, v)
	case []string:
		return strings.TrimSpace(strings.Join(v, ", "))
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format(DatetimeLayout)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.UTC().Format(DatetimeLayout)
	case []byte:
		return s.formatScalar(name, string(v))
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, fmt.Sprint(rv.Index(i).Interface()))
		}
		return strings.TrimSpace(strings.Join(items, ", "))
	}

	return s.formatScalar(name, fmt.Sprint(value))
}

func (s *Serializer) formatScalar(name, value string) string {
	value = strings.TrimSpace(value)
	if slices.Contains(s.MultilineFields, name) {
		value = strings.ReplaceAll(value, "\r\n", "\n")
		return strings.Join(strings.Split(value, "\n"), "\n ")
	}
	return value
}

func joinParts(parts []string) string {
	return strings.Join(parts, "\n"+multipartSeparator+"\n\n")
}
