package rt

import "regexp"

var (
	ticketNotFoundRE = regexp.MustCompile(`^Ticket (?P<ticket_id>\d+) does not exist\.$`)
	ticketCreatedRE  = regexp.MustCompile(`^Ticket (?P<ticket_id>\d+) created\.$`)
	ticketUpdatedRE  = regexp.MustCompile(`^Ticket (?P<ticket_id>\d+) updated\.$`)
)

// matchDetail returns the ticket id captured from the first detail line
// matching re.
func matchDetail(re *regexp.Regexp, details []string) (string, bool) {
	for _, detail := range details {
		if match := re.FindStringSubmatch(detail); match != nil {
			return match[re.SubexpIndex("ticket_id")], true
		}
	}
	return "", false
}
