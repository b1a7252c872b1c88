// ABOUTME: Effects as plain data describing the I/O the controller wants done
// ABOUTME: The reducer returns these; the runtime layer interprets them

package effects

import (
	"github.com/google/uuid"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
)

// Effect is a closed variant: every outbound instruction the controller can
// issue is declared in this package.
type Effect interface {
	effect()
}

// Generation tags a fetch so its eventual callback can be matched against the
// most recently issued request. Stale callbacks carry an older generation.
type Generation = uuid.UUID

func NewGeneration() Generation { return uuid.New() }

// FetchUser requests the current user from the API.
type FetchUser struct{}

// FetchAPIData requests the combined user/teams/pipelines payload.
type FetchAPIData struct{}

// LoadToken reads the persisted CSRF token from local storage. A non-empty
// result re-enters as a TokenReceived delivery.
type LoadToken struct{}

// SaveToken persists the CSRF token to local storage.
type SaveToken struct {
	Token string
}

// ModifyURL rewrites the visible location without navigating.
type ModifyURL struct {
	Route routes.Route
}

// NavigateTo performs an in-app navigation to the given route.
type NavigateTo struct {
	Route routes.Route
}

// RedirectToLogin sends the user to the login flow.
type RedirectToLogin struct{}

// Logout ends the server-side session and discards the stored token.
type Logout struct{}

// SetFavicon sets the favicon to the given build status, or clears it when the
// status is empty.
type SetFavicon struct {
	Status api.BuildStatus
}

type FetchPipeline struct {
	Generation Generation
	Team       string
	Pipeline   string
}

type FetchJob struct {
	Generation Generation
	Team       string
	Pipeline   string
	Job        string
}

type FetchJobBuilds struct {
	Generation Generation
	Team       string
	Pipeline   string
	Job        string
	Page       routes.Page
}

// FetchBuild fetches a job build by name, or the latest one when Name is
// "latest".
type FetchBuild struct {
	Generation Generation
	Team       string
	Pipeline   string
	Job        string
	Name       string
}

// FetchOneOffBuild fetches a build by global ID.
type FetchOneOffBuild struct {
	Generation Generation
	ID         int
}

type FetchResourceVersions struct {
	Generation Generation
	Team       string
	Pipeline   string
	Resource   string
	Page       routes.Page
}

type TriggerBuild struct {
	Team     string
	Pipeline string
	Job      string
}

type AbortBuild struct {
	BuildID int
}

// TogglePause pauses or unpauses a pipeline, depending on its current state.
type TogglePause struct {
	Team     string
	Pipeline string
	Paused   bool
}

func (FetchUser) effect() {}
func (FetchAPIData) effect() {}
func (LoadToken) effect() {}
func (SaveToken) effect() {}
func (ModifyURL) effect() {}
func (NavigateTo) effect() {}
func (RedirectToLogin) effect() {}
func (Logout) effect() {}
func (SetFavicon) effect() {}
func (FetchPipeline) effect() {}
func (FetchJob) effect() {}
func (FetchJobBuilds) effect() {}
func (FetchBuild) effect() {}
func (FetchOneOffBuild) effect() {}
func (FetchResourceVersions) effect() {}
func (TriggerBuild) effect() {}
func (AbortBuild) effect() {}
func (TogglePause) effect() {}
