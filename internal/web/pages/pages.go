// ABOUTME: The sub-page controller contract and the per-family constructor
// ABOUTME: One controller per route family, selected by an exhaustive switch

package pages

import (
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

// Assets is static configuration threaded into every page at init and never
// mutated afterwards.
type Assets struct {
	NotFoundImage            string
	PipelineRunningKeyframes string
}

// Msg is a page-internal message, typically translated from user input by the
// shell.
type Msg interface {
	pageMsg()
}

// SearchChanged updates the dashboard filter query.
type SearchChanged struct {
	Query string
}

// TogglePauseRequested pauses or unpauses the viewed pipeline.
type TogglePauseRequested struct{}

// TriggerBuildRequested starts a new build of the viewed job.
type TriggerBuildRequested struct{}

// AbortBuildRequested aborts the viewed build.
type AbortBuildRequested struct{}

func (SearchChanged) pageMsg() {}
func (TogglePauseRequested) pageMsg() {}
func (TriggerBuildRequested) pageMsg() {}
func (AbortBuildRequested) pageMsg() {}

// Page is the contract the application controller drives. Family must agree
// with the route the page was initialized or last URL-updated with.
type Page interface {
	Family() routes.Family

	// Generation identifies the page's outstanding fetches. Callbacks tagged
	// with a different generation are stale. Pages without tagged fetches
	// report the zero generation.
	Generation() effects.Generation

	// URLChanged performs a soft transition: the route changed within this
	// page's family and the page adjusts in place.
	URLChanged(r routes.Route) []effects.Effect

	Update(msg Msg, r routes.Route) []effects.Effect
	HandleCallback(cb events.Callback) []effects.Effect
	HandleDelivery(d events.Delivery) []effects.Effect

	Subscriptions() []events.Subscription

	View(width int) string
}

// New initializes a fresh page for the route's family. This is the hard
// transition path; soft transitions go through URLChanged instead.
func New(assets Assets, r routes.Route) (Page, []effects.Effect) {
	switch r := r.(type) {
	case routes.Dashboard:
		return NewDashboard(assets, r)
	case routes.Pipeline:
		return NewPipeline(assets, r)
	case routes.Job:
		return NewJob(assets, r)
	case routes.Build:
		return NewBuild(assets, r)
	case routes.OneOffBuild:
		return NewOneOffBuild(assets, r)
	case routes.Resource:
		return NewResource(assets, r)
	default:
		return NewNotFound(assets), nil
	}
}
