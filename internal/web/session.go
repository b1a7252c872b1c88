// ABOUTME: Tri-state session tracking derived from auth-determining callbacks
// ABOUTME: Unknown until the first response; never reverts to Unknown after

package web

import (
	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/web/events"
)

// Session is Unknown, LoggedIn, or LoggedOut. Transitions are one-directional
// triggers from specific callbacks; everything else leaves it untouched.
type Session interface {
	session()
}

type SessionUnknown struct{}

type SessionLoggedIn struct {
	User api.User
}

type SessionLoggedOut struct{}

func (SessionUnknown) session() {}
func (SessionLoggedIn) session() {}
func (SessionLoggedOut) session() {}

func deriveSession(cb events.Callback, current Session) Session {
	switch cb := cb.(type) {
	case events.LoggedOut:
		if cb.Err == nil {
			return SessionLoggedOut{}
		}

	case events.APIDataFetched:
		if cb.Err != nil || cb.Data.User == nil {
			return SessionLoggedOut{}
		}
		return SessionLoggedIn{User: *cb.Data.User}

	case events.UserFetched:
		if cb.Err != nil {
			return SessionLoggedOut{}
		}
		return SessionLoggedIn{User: cb.User}
	}
	return current
}
