// ABOUTME: The application controller: init, the pure reducer, subscriptions
// ABOUTME: Owns the soft/hard route transition rule and callback classification

package web

import (
	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
	"github.com/calculi-corp/concourse/internal/web/pages"
)

// Init builds the model for the initial location and returns the startup
// effects: always FetchUser, then token handling, then the page's own init
// effects.
func Init(flags Flags, location string) (Model, []effects.Effect) {
	route := routes.Parse(location)
	page, pageEffects := pages.New(flags.Assets, route)

	m := Model{
		Route:     route,
		Page:      page,
		Session:   SessionUnknown{},
		CSRFToken: flags.CSRFToken,
		Assets:    flags.Assets,
	}

	fx := []effects.Effect{effects.FetchUser{}}
	if flags.CSRFToken == "" {
		fx = append(fx, effects.LoadToken{})
	} else {
		// A token embedded in the URL must not linger in history or shareable
		// links. Re-serializing the parsed route drops the token parameter.
		fx = append(fx,
			effects.SaveToken{Token: flags.CSRFToken},
			effects.ModifyURL{Route: route},
		)
	}

	return m, append(fx, pageEffects...)
}

// Update is a pure reducer from (message, model) to (model, effects). All
// state mutation in the application happens here, one message at a time.
func Update(msg Msg, m Model) (Model, []effects.Effect) {
	switch msg := msg.(type) {
	case RouteChanged:
		return transition(m, msg.Route)

	case ModifyURLRequested:
		return m, []effects.Effect{effects.ModifyURL{Route: msg.Route}}

	case LogoutRequested:
		return m, []effects.Effect{effects.Logout{}}

	case PageMsg:
		return m, m.Page.Update(msg.Msg, m.Route)

	case CallbackReceived:
		return handleCallback(m, msg.Callback)

	case DeliveryReceived:
		return handleDelivery(m, msg.Delivery)
	}
	return m, nil
}

// Subscriptions returns the delivery sources the application wants running:
// the two fixed application-level ones plus whatever the active page declares.
func Subscriptions(m Model) []events.Subscription {
	subs := m.Page.Subscriptions()
	return append(subs, events.OnLinkClicked{}, events.OnTokenReceived{})
}

// transition applies the route-transition rule. An identical route is a
// no-op, a same-family route is a soft transition through URLChanged, and a
// cross-family route tears the page down and reinitializes it. Every case
// resets the favicon, since no other signal clears it on navigation.
func transition(m Model, r routes.Route) (Model, []effects.Effect) {
	var fx []effects.Effect
	switch {
	case routes.Equal(r, m.Route):
		// no transition

	case r.Family() == m.Route.Family():
		fx = m.Page.URLChanged(r)

	default:
		m.Page, fx = pages.New(m.Assets, r)
	}

	m.Route = r
	return m, append(fx, effects.SetFavicon{})
}

func handleCallback(m Model, cb events.Callback) (Model, []effects.Effect) {
	m.Session = deriveSession(cb, m.Session)

	fx := m.Page.HandleCallback(cb)

	// Unauthenticated-access policy: any listed action failing with 401
	// redirects to login, regardless of which page is active.
	if api.IsUnauthorized(authPolicyErr(cb)) {
		fx = append(fx, effects.RedirectToLogin{})
	}

	// Not-found fallback: the route stays, the page becomes NotFound. A 404
	// from a superseded fetch carries an older generation and does not count.
	if indicatesNotFound(cb, m.Page.Generation()) {
		m.Page = pages.NewNotFound(m.Assets)
	}

	return m, fx
}

func handleDelivery(m Model, delivery events.Delivery) (Model, []effects.Effect) {
	fx := m.Page.HandleDelivery(delivery)

	switch delivery := delivery.(type) {
	case events.LinkClicked:
		fx = append(fx, effects.NavigateTo{Route: routes.Parse(delivery.Location)})

	case events.TokenReceived:
		if delivery.Token != "" {
			m.CSRFToken = delivery.Token
		}
	}

	return m, fx
}

// authPolicyErr returns the failure of callbacks subject to the uniform 401
// policy: build trigger, build abort, pause toggle, job build listing, and
// resource version listing. Other kinds are exempt.
func authPolicyErr(cb events.Callback) error {
	switch cb := cb.(type) {
	case events.BuildTriggered:
		return cb.Err
	case events.BuildAborted:
		return cb.Err
	case events.PipelineToggled:
		return cb.Err
	case events.JobBuildsFetched:
		return cb.Err
	case events.ResourceVersionsFetched:
		return cb.Err
	}
	return nil
}

func indicatesNotFound(cb events.Callback, gen effects.Generation) bool {
	var (
		cbGen effects.Generation
		err   error
	)
	switch cb := cb.(type) {
	case events.PipelineFetched:
		cbGen, err = cb.Generation, cb.Err
	case events.JobFetched:
		cbGen, err = cb.Generation, cb.Err
	case events.JobBuildsFetched:
		cbGen, err = cb.Generation, cb.Err
	case events.BuildFetched:
		cbGen, err = cb.Generation, cb.Err
	case events.ResourceVersionsFetched:
		cbGen, err = cb.Generation, cb.Err
	}
	return cbGen == gen && api.IsNotFound(err)
}
