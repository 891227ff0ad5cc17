package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleEvent() Event {
	return Event{
		UID:            "b7f1c2d4@meetsync",
		Method:         MethodRequest,
		Sequence:       3,
		Start:          time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		End:            time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC),
		Summary:        "Mentoring session",
		Description:    "One-on-one mentoring",
		Location:       "Online",
		OrganizerName:  "Helen Host",
		OrganizerEmail: "helen@example.com",
		AttendeeName:   "Gary Guest",
		AttendeeEmail:  "gary@example.com",
	}
}

func TestBuildAtFields(t *testing.T) {
	dtstamp := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	out := BuildAt(sampleEvent(), dtstamp)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))

	assert.Contains(t, out, "METHOD:REQUEST\r\n")
	assert.Contains(t, out, "UID:b7f1c2d4@meetsync\r\n")
	assert.Contains(t, out, "SEQUENCE:3\r\n")
	assert.Contains(t, out, "DTSTAMP:20260301T093000Z\r\n")
	assert.Contains(t, out, "DTSTART:20260314T150000Z\r\n")
	assert.Contains(t, out, "DTEND:20260314T160000Z\r\n")
	assert.Contains(t, out, "ORGANIZER;CN=Helen Host:mailto:helen@example.com\r\n")
	assert.Contains(t, out, "ATTENDEE;CN=Gary Guest;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION;RSVP=TRUE:mailto:gary@example.com\r\n")
	assert.Contains(t, out, "SUMMARY:Mentoring session\r\n")
	assert.Contains(t, out, "STATUS:CONFIRMED\r\n")
}

func TestBuildAtIsDeterministic(t *testing.T) {
	dtstamp := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, BuildAt(sampleEvent(), dtstamp), BuildAt(sampleEvent(), dtstamp))
}

func TestSequenceIsVerbatim(t *testing.T) {
	ev := sampleEvent()

	ev.Sequence = 3
	assert.Contains(t, BuildAt(ev, time.Now()), "SEQUENCE:3\r\n")

	// a bumped booking revision must surface as-is
	ev.Sequence = 4
	assert.Contains(t, BuildAt(ev, time.Now()), "SEQUENCE:4\r\n")
}

func TestCancelMethodSetsCancelledStatus(t *testing.T) {
	ev := sampleEvent()
	ev.Method = MethodCancel

	out := BuildAt(ev, time.Now())
	assert.Contains(t, out, "METHOD:CANCEL\r\n")
	assert.Contains(t, out, "STATUS:CANCELLED\r\n")
}

func TestTimesRenderedAsUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	ev := sampleEvent()
	ev.Start = time.Date(2026, 3, 14, 10, 0, 0, 0, loc)
	out := BuildAt(ev, time.Now())

	assert.Contains(t, out, "DTSTART:"+ev.Start.UTC().Format("20060102T150405Z"))
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`semi;colon`, `semi\;colon`},
		{`com,ma`, `com\,ma`},
		{`back\slash`, `back\\slash`},
		{"new\nline", `new\nline`},
		{"crlf\r\nline", `crlf\nline`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeText(tt.in), "input %q", tt.in)
	}
}

func TestEscapedFieldsInOutput(t *testing.T) {
	ev := sampleEvent()
	ev.Summary = "Planning; budget, review"
	ev.Description = "Line one\nLine two"

	out := BuildAt(ev, time.Now())
	assert.Contains(t, out, `SUMMARY:Planning\; budget\, review`+"\r\n")
	assert.Contains(t, out, `DESCRIPTION:Line one\nLine two`+"\r\n")
}
