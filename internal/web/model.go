// ABOUTME: Application model and the message variants the controller processes
// ABOUTME: The model owns route, active page, session state, and the CSRF token

package web

import (
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/events"
	"github.com/calculi-corp/concourse/internal/web/pages"
)

// Flags is the static startup configuration. A non-empty CSRFToken means the
// page was entered through a login redirect that embedded one in the URL.
type Flags struct {
	Assets    pages.Assets
	CSRFToken string
}

// Model is the whole application state. It is created once at startup and
// mutated only by Update. The invariant family(Route) == family(Page) holds
// after every completed update cycle.
type Model struct {
	Route     routes.Route
	Page      pages.Page
	Session   Session
	CSRFToken string
	Assets    pages.Assets
}

// Msg is a closed variant over everything the controller can process.
type Msg interface {
	msg()
}

// RouteChanged arrives on browser navigation and in-app navigation alike.
type RouteChanged struct {
	Route routes.Route
}

// ModifyURLRequested rewrites the visible URL without a navigation.
type ModifyURLRequested struct {
	Route routes.Route
}

// LogoutRequested ends the session from anywhere in the application.
type LogoutRequested struct{}

// PageMsg wraps a message for the active sub-page.
type PageMsg struct {
	Msg pages.Msg
}

// CallbackReceived carries the result of a previously issued effect.
type CallbackReceived struct {
	Callback events.Callback
}

// DeliveryReceived carries an unsolicited inbound event.
type DeliveryReceived struct {
	Delivery events.Delivery
}

func (RouteChanged) msg() {}
func (ModifyURLRequested) msg() {}
func (LogoutRequested) msg() {}
func (PageMsg) msg() {}
func (CallbackReceived) msg() {}
func (DeliveryReceived) msg() {}
