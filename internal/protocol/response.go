package protocol

import (
	"strconv"
	"strings"
)

// Response is a parsed protocol envelope: meta line, detail lines and body.
type Response struct {
	Product    string
	Version    string
	StatusCode int
	Reason     string
	Details    []string
	Body       Body

	Content string
}

// ParseOptions controls how the body of a response is parsed.
type ParseOptions struct {
	Multipart  bool
	Serializer *Serializer
}

// ParseResponse parses a full response. The body is parsed as a single
// record, or as a multipart body when opts.Multipart is set, and then
// deserialized with opts.Serializer (or the default serializer).
func ParseResponse(content string, opts ParseOptions) (*Response, error) {
	lines := SplitLines(strings.TrimLeft(content, "\r\n"))
	if len(lines) == 0 {
		return nil, ErrMissingHeader
	}

	match := headerRE.FindStringSubmatch(lines[0])
	if match == nil {
		return nil, &MalformedHeaderError{Content: content}
	}
	status, err := strconv.Atoi(match[headerRE.SubexpIndex("status")])
	if err != nil {
		return nil, &MalformedHeaderError{Content: content, Detail: "invalid status code"}
	}

	resp := &Response{
		Product:    match[headerRE.SubexpIndex("product")],
		Version:    match[headerRE.SubexpIndex("version")],
		StatusCode: status,
		Reason:     match[headerRE.SubexpIndex("reason")],
		Content:    content,
	}

	if len(lines) < 2 || lines[1] != "" {
		return nil, &MalformedHeaderError{Content: content, Detail: "expected a blank line following the meta line"}
	}
	lines = lines[2:]

	for len(lines) > 0 {
		detail := detailRE.FindStringSubmatch(lines[0])
		if detail == nil {
			break
		}
		resp.Details = append(resp.Details, strings.TrimSpace(detail[detailRE.SubexpIndex("detail")]))
		lines = lines[1:]
	}

	if len(resp.Details) > 0 && len(lines) > 0 {
		if lines[0] != "" {
			return nil, &MalformedHeaderError{Content: content, Detail: "expected a blank line following the detail lines"}
		}
		lines = lines[1:]
	}

	if isNoMatchingResults(lines) {
		if opts.Multipart {
			resp.Body = MultiRecord{}
		} else {
			resp.Body = NewRecord()
		}
		return resp, nil
	}

	raw, err := ParseBody(lines, opts.Multipart)
	if err != nil {
		return nil, err
	}
	resp.Body, err = raw.Deserialize(opts.Serializer)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// NoMatchingResults is the whole body of a search that matched nothing.
const NoMatchingResults = "No matching results."

func isNoMatchingResults(lines []string) bool {
	found := false
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case "":
		case NoMatchingResults:
			if found {
				return false
			}
			found = true
		default:
			return false
		}
	}
	return found
}

// Detail joins all detail lines with newlines.
func (r *Response) Detail() string {
	return strings.Join(r.Details, "\n")
}

// Record returns the body when it is a single record.
func (r *Response) Record() (*Record, bool) {
	record, ok := r.Body.(*Record)
	return record, ok
}

// Records returns the body when it is multipart.
func (r *Response) Records() (MultiRecord, bool) {
	records, ok := r.Body.(MultiRecord)
	return records, ok
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
