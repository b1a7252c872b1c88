// ABOUTME: Unit tests for session state derivation from callbacks
// ABOUTME: Verifies the one-directional tri-state transitions

package web

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/web/events"
)

func TestSessionDerivation(t *testing.T) {
	user := api.User{ID: "u1", UserName: "pivotal-tracker"}
	failed := errors.New("boom")

	tests := []struct {
		name    string
		current Session
		cb      events.Callback
		want    Session
	}{
		{
			name:    "api data with user logs in",
			current: SessionUnknown{},
			cb:      events.APIDataFetched{Data: api.APIData{User: &user}},
			want:    SessionLoggedIn{User: user},
		},
		{
			name:    "api data without user logs out",
			current: SessionUnknown{},
			cb:      events.APIDataFetched{Data: api.APIData{}},
			want:    SessionLoggedOut{},
		},
		{
			name:    "failed api data fetch logs out",
			current: SessionUnknown{},
			cb:      events.APIDataFetched{Err: failed},
			want:    SessionLoggedOut{},
		},
		{
			name:    "user fetch logs in",
			current: SessionUnknown{},
			cb:      events.UserFetched{User: user},
			want:    SessionLoggedIn{User: user},
		},
		{
			name:    "failed user fetch logs out",
			current: SessionLoggedIn{User: user},
			cb:      events.UserFetched{Err: failed},
			want:    SessionLoggedOut{},
		},
		{
			name:    "successful logout logs out",
			current: SessionLoggedIn{User: user},
			cb:      events.LoggedOut{},
			want:    SessionLoggedOut{},
		},
		{
			name:    "failed logout leaves session alone",
			current: SessionLoggedIn{User: user},
			cb:      events.LoggedOut{Err: failed},
			want:    SessionLoggedIn{User: user},
		},
		{
			name:    "unrelated callbacks leave session alone",
			current: SessionLoggedIn{User: user},
			cb:      events.BuildAborted{BuildID: 3},
			want:    SessionLoggedIn{User: user},
		},
		{
			name:    "unrelated callbacks do not resolve unknown",
			current: SessionUnknown{},
			cb:      events.BuildTriggered{},
			want:    SessionUnknown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveSession(tt.cb, tt.current))
		})
	}
}

func TestSessionNeverRevertsToUnknown(t *testing.T) {
	// Once a session leaves Unknown, no callback brings it back.
	for _, start := range []Session{SessionLoggedOut{}, SessionLoggedIn{}} {
		for _, cb := range []events.Callback{
			events.BuildAborted{},
			events.JobFetched{},
			events.LoggedOut{Err: errors.New("x")},
		} {
			got := deriveSession(cb, start)
			assert.NotEqual(t, SessionUnknown{}, got)
		}
	}
}
