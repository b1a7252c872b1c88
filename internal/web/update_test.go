// ABOUTME: Unit tests for the application controller's reducer
// ABOUTME: Covers transitions, startup effects, 401 policy, and deliveries

package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
	"github.com/calculi-corp/concourse/internal/web/pages"
)

var testAssets = pages.Assets{
	NotFoundImage:            "images/parachute.svg",
	PipelineRunningKeyframes: "pipeline-running",
}

func modelAt(t *testing.T, location string) Model {
	t.Helper()
	m, _ := Init(Flags{Assets: testAssets}, location)
	return m
}

func hasEffect(fx []effects.Effect, want effects.Effect) bool {
	for _, f := range fx {
		if assert.ObjectsAreEqual(f, want) {
			return true
		}
	}
	return false
}

func TestInitWithoutToken(t *testing.T) {
	m, fx := Init(Flags{Assets: testAssets}, "/")

	assert.Equal(t, routes.Dashboard{}, m.Route)
	assert.Equal(t, SessionUnknown{}, m.Session)
	assert.Equal(t, m.Route.Family(), m.Page.Family())

	assert.True(t, hasEffect(fx, effects.FetchUser{}))
	assert.True(t, hasEffect(fx, effects.LoadToken{}))
	for _, f := range fx {
		_, isSave := f.(effects.SaveToken)
		_, isModify := f.(effects.ModifyURL)
		assert.False(t, isSave, "no SaveToken without a supplied token")
		assert.False(t, isModify, "no ModifyURL without a supplied token")
	}

	// the dashboard's own init effect rides along
	assert.True(t, hasEffect(fx, effects.FetchAPIData{}))
}

func TestInitWithToken(t *testing.T) {
	location := "/teams/main/pipelines/booklit?csrf_token=abc123"
	m, fx := Init(Flags{Assets: testAssets, CSRFToken: "abc123"}, location)

	assert.Equal(t, routes.Pipeline{Team: "main", Name: "booklit"}, m.Route)
	assert.Equal(t, "abc123", m.CSRFToken)

	assert.True(t, hasEffect(fx, effects.FetchUser{}))
	assert.True(t, hasEffect(fx, effects.SaveToken{Token: "abc123"}))
	assert.False(t, hasEffect(fx, effects.LoadToken{}))

	var modified *effects.ModifyURL
	for _, f := range fx {
		if mu, ok := f.(effects.ModifyURL); ok {
			modified = &mu
		}
	}
	require.NotNil(t, modified, "a supplied token must be stripped from the URL")
	assert.NotContains(t, modified.Route.String(), "csrf_token")
}

func TestInitWithTokenOnUnknownLocation(t *testing.T) {
	location := "/no/such/page?csrf_token=abc123"
	m, fx := Init(Flags{Assets: testAssets, CSRFToken: "abc123"}, location)

	assert.Equal(t, routes.FamilyNotFound, m.Route.Family())

	var modified *effects.ModifyURL
	for _, f := range fx {
		if mu, ok := f.(effects.ModifyURL); ok {
			modified = &mu
		}
	}
	require.NotNil(t, modified, "the token is stripped even for unknown locations")
	assert.NotContains(t, modified.Route.String(), "csrf_token")
}

func TestRouteChangedSameRouteIsIdempotent(t *testing.T) {
	m := modelAt(t, "/teams/main/pipelines/booklit")
	before := m.Page

	m2, fx := Update(RouteChanged{Route: routes.Pipeline{Team: "main", Name: "booklit"}}, m)

	assert.Same(t, before, m2.Page, "sub-model must be untouched")
	assert.Equal(t, []effects.Effect{effects.SetFavicon{}}, fx, "only the favicon reset")
	assert.Equal(t, m.Route, m2.Route)
}

func TestRouteChangedSameFamilyIsSoft(t *testing.T) {
	m := modelAt(t, "/teams/main/pipelines/p1")
	before := m.Page

	target := routes.Pipeline{Team: "main", Name: "p2"}
	m2, fx := Update(RouteChanged{Route: target}, m)

	assert.Same(t, before, m2.Page, "same family keeps the sub-model")
	assert.Equal(t, target, m2.Route)
	assert.Equal(t, m2.Route.Family(), m2.Page.Family())
	assert.True(t, hasEffect(fx, effects.SetFavicon{}))

	// the soft transition refetches the newly viewed pipeline
	var refetched bool
	for _, f := range fx {
		if fp, ok := f.(effects.FetchPipeline); ok {
			refetched = true
			assert.Equal(t, "p2", fp.Pipeline)
		}
	}
	assert.True(t, refetched)
}

func TestRouteChangedAcrossFamiliesIsHard(t *testing.T) {
	m := modelAt(t, "/teams/main/pipelines/p1")
	before := m.Page

	m2, fx := Update(RouteChanged{Route: routes.Dashboard{}}, m)

	assert.NotSame(t, before, m2.Page, "cross family discards the sub-model")
	assert.Equal(t, routes.FamilyDashboard, m2.Page.Family())
	assert.Equal(t, m2.Route.Family(), m2.Page.Family())
	assert.True(t, hasEffect(fx, effects.SetFavicon{}))
	assert.True(t, hasEffect(fx, effects.FetchAPIData{}), "fresh init effects run")
}

func TestFamilyInvariantAcrossNavigation(t *testing.T) {
	m := modelAt(t, "/")
	for _, r := range []routes.Route{
		routes.Pipeline{Team: "a", Name: "p"},
		routes.Job{Team: "a", Pipeline: "p", Name: "j"},
		routes.Build{Team: "a", Pipeline: "p", Job: "j", Name: "1"},
		routes.OneOffBuild{ID: 7},
		routes.Resource{Team: "a", Pipeline: "p", Name: "r"},
		routes.NotFound{Location: "/nope"},
		routes.Dashboard{Search: "x"},
	} {
		m, _ = Update(RouteChanged{Route: r}, m)
		assert.Equal(t, m.Route.Family(), m.Page.Family(), "after navigating to %s", r)
	}
}

func TestModifyURLRequested(t *testing.T) {
	m := modelAt(t, "/")
	target := routes.Dashboard{Search: "ci"}

	m2, fx := Update(ModifyURLRequested{Route: target}, m)

	assert.Equal(t, m.Route, m2.Route, "no navigation")
	assert.Equal(t, []effects.Effect{effects.ModifyURL{Route: target}}, fx)
}

func statusErr(code int) error {
	return &api.UnexpectedResponseError{StatusCode: code}
}

func TestUnauthorizedCallbacksRedirectToLogin(t *testing.T) {
	kinds := map[string]func(err error) events.Callback{
		"build trigger": func(err error) events.Callback {
			return events.BuildTriggered{Err: err}
		},
		"build abort": func(err error) events.Callback {
			return events.BuildAborted{Err: err}
		},
		"pause toggle": func(err error) events.Callback {
			return events.PipelineToggled{Err: err}
		},
		"job builds fetch": func(err error) events.Callback {
			return events.JobBuildsFetched{Err: err}
		},
		"resource versions fetch": func(err error) events.Callback {
			return events.ResourceVersionsFetched{Err: err}
		},
	}

	for name, wrap := range kinds {
		t.Run(name, func(t *testing.T) {
			m := modelAt(t, "/")

			_, fx := Update(CallbackReceived{Callback: wrap(statusErr(http.StatusUnauthorized))}, m)
			assert.True(t, hasEffect(fx, effects.RedirectToLogin{}), "401 must redirect")

			_, fx = Update(CallbackReceived{Callback: wrap(statusErr(http.StatusForbidden))}, m)
			assert.False(t, hasEffect(fx, effects.RedirectToLogin{}), "403 must not redirect")

			_, fx = Update(CallbackReceived{Callback: wrap(statusErr(http.StatusInternalServerError))}, m)
			assert.False(t, hasEffect(fx, effects.RedirectToLogin{}), "500 must not redirect")
		})
	}
}

func TestNotFoundFallbackKeepsRoute(t *testing.T) {
	m, fx := Init(Flags{Assets: testAssets}, "/teams/main/pipelines/p/jobs/gone")
	route := m.Route

	var gen effects.Generation
	for _, f := range fx {
		if fb, ok := f.(effects.FetchJobBuilds); ok {
			gen = fb.Generation
		}
	}

	m2, _ := Update(CallbackReceived{Callback: events.JobBuildsFetched{
		Generation: gen,
		Team:       "main", Pipeline: "p", Job: "gone",
		Err: statusErr(http.StatusNotFound),
	}}, m)

	assert.Equal(t, route, m2.Route, "route stays put")
	assert.IsType(t, &pages.NotFound{}, m2.Page)
}

func fetchPipelineGeneration(t *testing.T, fx []effects.Effect) effects.Generation {
	t.Helper()
	for _, f := range fx {
		if fp, ok := f.(effects.FetchPipeline); ok {
			return fp.Generation
		}
	}
	t.Fatal("no FetchPipeline effect issued")
	return effects.Generation{}
}

func TestStaleNotFoundAfterHardTransitionIsIgnored(t *testing.T) {
	m, fx := Init(Flags{Assets: testAssets}, "/teams/main/pipelines/p1")
	stale := fetchPipelineGeneration(t, fx)

	m, _ = Update(RouteChanged{Route: routes.Dashboard{}}, m)

	m2, fx2 := Update(CallbackReceived{Callback: events.PipelineFetched{
		Generation: stale,
		Err:        statusErr(http.StatusNotFound),
	}}, m)

	assert.Equal(t, routes.FamilyDashboard, m2.Page.Family(), "stale 404 must not replace the page")
	assert.Empty(t, fx2)
}

func TestStaleNotFoundAfterSoftTransitionIsIgnored(t *testing.T) {
	m, fx := Init(Flags{Assets: testAssets}, "/teams/main/pipelines/p1")
	stale := fetchPipelineGeneration(t, fx)

	m, fx = Update(RouteChanged{Route: routes.Pipeline{Team: "main", Name: "p2"}}, m)
	current := fetchPipelineGeneration(t, fx)

	m2, _ := Update(CallbackReceived{Callback: events.PipelineFetched{
		Generation: stale,
		Err:        statusErr(http.StatusNotFound),
	}}, m)
	assert.Equal(t, routes.FamilyPipeline, m2.Page.Family(), "stale 404 leaves the page alone")

	m2, _ = Update(CallbackReceived{Callback: events.PipelineFetched{
		Generation: current,
		Err:        statusErr(http.StatusNotFound),
	}}, m)
	assert.IsType(t, &pages.NotFound{}, m2.Page, "a current 404 still falls back")
}

func TestLinkClickedDeliveryNavigates(t *testing.T) {
	m := modelAt(t, "/")

	_, fx := Update(DeliveryReceived{Delivery: events.LinkClicked{
		Location: "/teams/main/pipelines/booklit",
	}}, m)

	assert.True(t, hasEffect(fx, effects.NavigateTo{
		Route: routes.Pipeline{Team: "main", Name: "booklit"},
	}))
}

func TestTokenReceivedDeliveryUpdatesToken(t *testing.T) {
	m := modelAt(t, "/")

	m2, fx := Update(DeliveryReceived{Delivery: events.TokenReceived{Token: "tok"}}, m)
	assert.Equal(t, "tok", m2.CSRFToken)
	assert.Empty(t, fx)

	m3, _ := Update(DeliveryReceived{Delivery: events.TokenReceived{Token: ""}}, m2)
	assert.Equal(t, "tok", m3.CSRFToken, "empty token is ignored")
}

func TestStaleCallbackIsTolerated(t *testing.T) {
	// A callback for a superseded fetch must be processed safely against the
	// current model: the generation check drops its payload.
	m := modelAt(t, "/teams/main/pipelines/p/jobs/j")

	m, _ = Update(RouteChanged{Route: routes.Job{
		Team: "main", Pipeline: "p", Name: "j", Page: routes.Page{Since: 10},
	}}, m)

	stale := events.JobBuildsFetched{
		Generation: effects.NewGeneration(), // never issued
		Team:       "main", Pipeline: "p", Job: "j",
		Builds: []api.Build{{ID: 1, Name: "1"}},
	}
	m2, fx := Update(CallbackReceived{Callback: stale}, m)

	assert.Empty(t, fx)
	assert.Equal(t, m.Route, m2.Route)
	assert.Equal(t, m2.Route.Family(), m2.Page.Family())
}

func TestSubscriptionsIncludeApplicationLevel(t *testing.T) {
	m := modelAt(t, "/")
	subs := Subscriptions(m)

	assert.Contains(t, subs, events.Subscription(events.OnLinkClicked{}))
	assert.Contains(t, subs, events.Subscription(events.OnTokenReceived{}))
	// plus the dashboard's clock
	var hasClock bool
	for _, s := range subs {
		if _, ok := s.(events.OnClockTick); ok {
			hasClock = true
		}
	}
	assert.True(t, hasClock)
}

func TestLogoutRequested(t *testing.T) {
	m := modelAt(t, "/")

	m2, fx := Update(LogoutRequested{}, m)
	assert.Equal(t, []effects.Effect{effects.Logout{}}, fx)

	m3, _ := Update(CallbackReceived{Callback: events.LoggedOut{}}, m2)
	assert.Equal(t, SessionLoggedOut{}, m3.Session)
}

func TestPageMsgForwardsToActivePage(t *testing.T) {
	m := modelAt(t, "/teams/main/pipelines/p/jobs/j")

	_, fx := Update(PageMsg{Msg: pages.TriggerBuildRequested{}}, m)

	assert.True(t, hasEffect(fx, effects.TriggerBuild{Team: "main", Pipeline: "p", Job: "j"}))
}
