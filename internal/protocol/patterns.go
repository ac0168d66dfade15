package protocol

import "regexp"

const (
	customFieldPrefix = "CF.{"
	customFieldSuffix = "}"

	multipartSeparator = "--"
)

var (
	customFieldRE = regexp.MustCompile(`^CF\.\{(?P<name>[\w -]+\??)\}$`)

	// A bare key may not start with a space, so indented text is always a
	// continuation line.
	keyLineRE = regexp.MustCompile(`^(?P<key>CF\.\{[\w -]+\??\}|[\w-][\w -]*\??):\s*(?P<value>.*)$`)

	headerRE = regexp.MustCompile(`^(?P<product>\w+)/(?P<version>\d+(?:\.\d+)+)\s+(?P<status>\d{3})\s+(?P<reason>.+?)\s*$`)

	detailRE = regexp.MustCompile(`^#(?P<detail>.*)$`)
)
