package record

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/bnema/rt-cli/internal/protocol"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// Title is printed above the body when set.
	Title string
	// Fields limits output to these keys, in this order. "id" is always
	// kept for multipart bodies.
	Fields []string
	// Summary renders a single record as an id/subject listing, the shape
	// of a short-format search result.
	Summary bool
}

func renderView(body protocol.Body, opts RenderOptions, s styles) string {
	var lines []string
	if opts.Title != "" {
		lines = append(lines, s.title.Render(opts.Title))
	}

	switch b := body.(type) {
	case *protocol.Record:
		if opts.Summary {
			lines = append(lines, s.header.Render(fmt.Sprintf("tickets: %d", b.Len())))
			if b.Len() == 0 {
				lines = append(lines, s.empty.Render("No tickets matched."))
				break
			}
			lines = append(lines, renderSummary(b, s))
			break
		}
		if b == nil || b.Len() == 0 {
			lines = append(lines, s.empty.Render("No fields."))
			break
		}
		lines = append(lines, renderFields(b, opts.Fields, s))

	case protocol.MultiRecord:
		lines = append(lines, s.header.Render(fmt.Sprintf("tickets: %d", b.Len())))
		if b.Len() == 0 {
			lines = append(lines, s.empty.Render("No tickets matched."))
			break
		}
		for i := range b.Len() {
			lines = append(lines, s.section.Render(renderPart(b.At(i), opts.Fields, s)))
		}

	default:
		lines = append(lines, s.empty.Render("Nothing to show."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPart(r *protocol.Record, fields []string, s styles) string {
	title := r.GetString("id")
	if title == "" {
		title = "(no id)"
	}
	if subject := r.GetString("Subject"); subject != "" {
		title += "  " + subject
	}

	if len(fields) > 0 {
		fields = slices.DeleteFunc(slices.Clone(fields), func(f string) bool { return f == "id" })
	}
	rest := r.Clone()
	rest.Delete("id")
	rest.Delete("Subject")

	parts := []string{s.id.Render(title)}
	if len(fields) > 0 || rest.Len() > 0 {
		parts = append(parts, renderFields(pick(r, rest, fields), nil, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// pick returns the requested fields of full, or rest when none were named.
func pick(full, rest *protocol.Record, fields []string) *protocol.Record {
	if len(fields) == 0 {
		return rest
	}
	out := protocol.NewRecord()
	for _, name := range fields {
		if value, ok := full.Get(name); ok {
			out.Set(name, value)
		}
	}
	return out
}

func renderFields(r *protocol.Record, fields []string, s styles) string {
	if len(fields) > 0 {
		r = pick(r, r, fields)
	}
	if r.Len() == 0 {
		return s.empty.Render("No matching fields.")
	}

	width := 0
	for name := range r.All() {
		width = max(width, lipgloss.Width(name)+1)
	}

	var rows []string
	for name, value := range r.All() {
		keyStyle := s.key
		if strings.HasPrefix(name, "CF.{") {
			keyStyle = s.custom
		}
		label := keyStyle.Width(width).Render(name + ":")

		valueLines := strings.Split(formatValue(value), "\n")
		block := s.value.Render(strings.Join(valueLines, "\n"))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, " ", block))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderSummary(r *protocol.Record, s styles) string {
	width := 0
	for id := range r.All() {
		width = max(width, lipgloss.Width(id))
	}

	var rows []string
	for id, subject := range r.All() {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			s.id.Width(width).Render(id), "  ", s.value.Render(formatValue(subject))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(protocol.DatetimeLayout)
	case []string:
		return strings.Join(v, ", ")
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		items := make([]string, 0, rv.Len())
		for i := range rv.Len() {
			items = append(items, fmt.Sprint(rv.Index(i).Interface()))
		}
		return strings.Join(items, ", ")
	}
	return fmt.Sprint(value)
}
