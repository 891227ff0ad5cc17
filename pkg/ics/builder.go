// Package ics renders RFC 5545 calendar objects for booking invites and
// cancellations. Build is deterministic for a given event and timestamp;
// DTSTAMP is the only field that varies between generations.
package ics

import (
	"fmt"
	"strings"
	"time"
)

type Method string

const (
	MethodRequest Method = "REQUEST"
	MethodCancel  Method = "CANCEL"
)

type Event struct {
	UID            string
	Method         Method
	Sequence       int
	Start          time.Time
	End            time.Time
	Summary        string
	Description    string
	Location       string
	OrganizerName  string
	OrganizerEmail string
	AttendeeName   string
	AttendeeEmail  string
}

// Build renders the event with the current wall-clock DTSTAMP.
func Build(ev Event) string {
	return BuildAt(ev, time.Now())
}

// BuildAt renders the event with an explicit DTSTAMP. The SEQUENCE value is
// emitted verbatim; callers own the monotonicity of booking revisions.
func BuildAt(ev Event, dtstamp time.Time) string {
	status := "CONFIRMED"
	if ev.Method == MethodCancel {
		status = "CANCELLED"
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//meetsync//booking//EN")
	line("CALSCALE:GREGORIAN")
	line("METHOD:" + string(ev.Method))
	line("BEGIN:VEVENT")
	line("UID:" + escapeText(ev.UID))
	line(fmt.Sprintf("SEQUENCE:%d", ev.Sequence))
	line("DTSTAMP:" + formatUTC(dtstamp))
	line("DTSTART:" + formatUTC(ev.Start))
	line("DTEND:" + formatUTC(ev.End))
	line(fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", escapeText(ev.OrganizerName), ev.OrganizerEmail))
	line(fmt.Sprintf("ATTENDEE;CN=%s;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION;RSVP=TRUE:mailto:%s", escapeText(ev.AttendeeName), ev.AttendeeEmail))
	line("SUMMARY:" + escapeText(ev.Summary))
	line("DESCRIPTION:" + escapeText(ev.Description))
	line("LOCATION:" + escapeText(ev.Location))
	line("STATUS:" + status)
	line("END:VEVENT")
	line("END:VCALENDAR")

	return b.String()
}

// formatUTC renders a timestamp as YYYYMMDDTHHMMSSZ (UTC, whole seconds).
func formatUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeText applies RFC 5545 TEXT escaping: backslash, newline, semicolon
// and comma.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\r\n", "\\n",
		"\n", "\\n",
		";", "\\;",
		",", "\\,",
	)
	return r.Replace(s)
}
