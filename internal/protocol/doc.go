// Package protocol implements the RT REST 1.0 text format.
//
// A response looks like:
//
//	RT/4.0.5 200 Ok
//
//	# Ticket 1234 created.
//
//	id: ticket/1234
//	Subject: Printer on fire
//	Text: first line
//	 second line
//	CF.{Severity}: high
//
// The first line is the meta line (product/version, status code, reason).
// It is followed by a blank line, an optional run of "#" detail lines and
// another blank line, then the body: "Key: value" fields whose values may
// continue on indented lines. Multipart bodies repeat the field block,
// separated by a line holding only "--" with a blank line on either side.
//
// Records keep field insertion order, which matters when they are sent back
// to the server. Custom fields use CF.{name} keys and can be addressed by
// bare name through Record.CustomFields.
package protocol
