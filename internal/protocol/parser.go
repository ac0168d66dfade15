package protocol

import (
	"strings"
)

// SplitLines splits content into lines without line endings. A final line
// ending does not start a new line. Whitespace inside each line is preserved.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

// ParseRecord parses lines into a single record.
func ParseRecord(lines []string) (*Record, error) {
	return parseRecordAt(lines, 0)
}

// ParseRecordString parses the text of a single record.
func ParseRecordString(content string) (*Record, error) {
	return ParseRecord(SplitLines(content))
}

// ParseMultiRecord splits lines at blank/--/blank separators and parses each
// part as a record.
func ParseMultiRecord(lines []string) (MultiRecord, error) {
	records := MultiRecord{}
	for _, part := range splitParts(lines) {
		record, err := parseRecordAt(part.lines, part.offset)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseBody parses lines as a MultiRecord when multipart is set and as a
// single Record otherwise.
func ParseBody(lines []string, multipart bool) (Body, error) {
	if multipart {
		return ParseMultiRecord(lines)
	}
	record, err := ParseRecord(lines)
	if err != nil {
		return nil, err
	}
	return record, nil
}

type field struct {
	key    string
	inline string
	block  []string
}

// value joins the inline part and the dedented continuation block. Blank
// lines inside the value are kept; only its outer edges are trimmed.
func (f *field) value() string {
	block := strings.Join(dedent(f.block), "\n")

	value := f.inline
	switch {
	case value == "":
		value = block
	case block != "":
		value = value + "\n" + block
	}
	return strings.TrimSpace(value)
}

func parseRecordAt(lines []string, offset int) (*Record, error) {
	record := NewRecord()
	var current *field

	flush := func() {
		if current != nil {
			record.Set(current.key, current.value())
			current = nil
		}
	}

	for i, line := range lines {
		if match := keyLineRE.FindStringSubmatch(line); match != nil {
			flush()
			current = &field{
				key:    match[keyLineRE.SubexpIndex("key")],
				inline: match[keyLineRE.SubexpIndex("value")],
			}
			continue
		}

		switch {
		case isBlank(line):
			if current != nil {
				current.block = append(current.block, "")
			}
		case strings.HasPrefix(line, "#"):
		case isContinuation(line):
			if current == nil {
				return nil, &GrammarError{Line: offset + i + 1, Content: line, Reason: "continuation line without a preceding key"}
			}
			current.block = append(current.block, line)
		default:
			return nil, &GrammarError{Line: offset + i + 1, Content: line, Reason: "expected a key line"}
		}
	}
	flush()

	return record, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// dedent removes the longest leading whitespace shared by every non-blank
// line. Blank lines come back empty.
func dedent(lines []string) []string {
	prefix := ""
	first := true
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		out[i] = line[len(prefix):]
	}
	return out
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

type part struct {
	lines  []string
	offset int
}

// splitParts cuts lines wherever a blank, "--", blank sequence occurs.
// Comment lines are skipped while matching the sequence but stay in the
// surrounding parts.
func splitParts(lines []string) []part {
	var parts []part
	start := 0

	for i := 0; i < len(lines); i++ {
		if lines[i] != multipartSeparator {
			continue
		}
		before := neighbour(lines, i, -1)
		after := neighbour(lines, i, +1)
		if before < start || after < 0 || !isBlank(lines[before]) || !isBlank(lines[after]) {
			continue
		}

		parts = append(parts, part{lines: lines[start:before], offset: start})
		start = after + 1
		i = after
	}

	return append(parts, part{lines: lines[start:], offset: start})
}

// neighbour returns the index of the closest non-comment line in direction
// step from i, or -1.
func neighbour(lines []string, i, step int) int {
	for j := i + step; j >= 0 && j < len(lines); j += step {
		if !strings.HasPrefix(lines[j], "#") {
			return j
		}
	}
	return -1
}
