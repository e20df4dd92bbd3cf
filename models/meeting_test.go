package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesMeetingQuery(t *testing.T) {
	meeting := ClientMeeting{
		Title:     "Q3 hosting renewal",
		Remarks:   "Client asked about SSL pricing",
		Summary:   "Renew in September",
		Attendees: []string{"Priya", "ops@example.com"},
	}

	assert.True(t, meeting.MatchesMeetingQuery(""))
	assert.True(t, meeting.MatchesMeetingQuery("  "))
	assert.True(t, meeting.MatchesMeetingQuery("hosting"))
	assert.True(t, meeting.MatchesMeetingQuery("SSL"))
	assert.True(t, meeting.MatchesMeetingQuery("september"))
	assert.True(t, meeting.MatchesMeetingQuery("priya"))
	assert.True(t, meeting.MatchesMeetingQuery("OPS@EXAMPLE.COM"))
	assert.False(t, meeting.MatchesMeetingQuery("payroll"))
}
