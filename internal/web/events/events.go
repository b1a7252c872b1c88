// ABOUTME: Callback and Delivery messages re-entering the controller's queue
// ABOUTME: Callbacks correlate async effect results; deliveries are unsolicited

package events

import (
	"time"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/web/effects"
)

// Callback is the typed result of a previously issued effect. Each kind
// carries either its payload or the error that produced it, never both.
type Callback interface {
	callback()
}

type UserFetched struct {
	User api.User
	Err  error
}

type APIDataFetched struct {
	Data api.APIData
	Err  error
}

// LoggedOut is the result of the logout request.
type LoggedOut struct {
	Err error
}

type PipelineFetched struct {
	Generation effects.Generation
	Pipeline   api.Pipeline
	Err        error
}

type JobFetched struct {
	Generation effects.Generation
	Job        api.Job
	Err        error
}

type JobBuildsFetched struct {
	Generation effects.Generation
	Team       string
	Pipeline   string
	Job        string
	Builds     []api.Build
	Err        error
}

type BuildFetched struct {
	Generation effects.Generation
	Build      api.Build
	Err        error
}

type ResourceVersionsFetched struct {
	Generation effects.Generation
	Team       string
	Pipeline   string
	Resource   string
	Versions   []api.Version
	Err        error
}

type BuildTriggered struct {
	Team     string
	Pipeline string
	Job      string
	Build    api.Build
	Err      error
}

type BuildAborted struct {
	BuildID int
	Err     error
}

type PipelineToggled struct {
	Team     string
	Pipeline string
	Paused   bool
	Err      error
}

func (UserFetched) callback() {}
func (APIDataFetched) callback() {}
func (LoggedOut) callback() {}
func (PipelineFetched) callback() {}
func (JobFetched) callback() {}
func (JobBuildsFetched) callback() {}
func (BuildFetched) callback() {}
func (ResourceVersionsFetched) callback() {}
func (BuildTriggered) callback() {}
func (BuildAborted) callback() {}
func (PipelineToggled) callback() {}

// Delivery is an inbound event not caused by this controller's own requests.
type Delivery interface {
	delivery()
}

// LinkClicked arrives when a non-anchor link is activated; the controller
// turns it into an imperative navigation.
type LinkClicked struct {
	Location string
}

// TokenReceived arrives when a CSRF token shows up out of band, for example
// from a storage change or the startup LoadToken effect.
type TokenReceived struct {
	Token string
}

// ClockTicked drives pages that subscribed to periodic updates.
type ClockTicked struct {
	Time time.Time
}

// BuildStatusReceived arrives over the event stream when a build changes
// state somewhere in the cluster.
type BuildStatusReceived struct {
	BuildID int
	Status  api.BuildStatus
}

func (LinkClicked) delivery() {}
func (TokenReceived) delivery() {}
func (ClockTicked) delivery() {}
func (BuildStatusReceived) delivery() {}
