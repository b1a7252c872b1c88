// ABOUTME: Executes effect data against the API client and the token store
// ABOUTME: Every async result re-enters the program as a callback message

package runtime

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/eventstream"
	"github.com/calculi-corp/concourse/internal/logger"
	"github.com/calculi-corp/concourse/internal/store"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

// CallbackMsg re-enters the message queue with the result of an effect.
type CallbackMsg struct {
	Callback events.Callback
}

// DeliveryMsg re-enters the message queue with an unsolicited event.
type DeliveryMsg struct {
	Delivery events.Delivery
}

// Executor owns the I/O collaborators the effects need. Navigation and UI
// effects are not its business; the program handles those itself.
type Executor struct {
	API    *api.Client
	Store  *store.Store
	Stream *eventstream.Client
	Target string
}

// Command turns an I/O effect into a bubbletea command, or nil for effects it
// does not handle.
func (e *Executor) Command(effect effects.Effect) tea.Cmd {
	switch effect := effect.(type) {
	case effects.FetchUser:
		return func() tea.Msg {
			user, err := e.API.User(context.Background())
			return CallbackMsg{events.UserFetched{User: user, Err: err}}
		}

	case effects.FetchAPIData:
		return func() tea.Msg {
			data, err := e.API.APIData(context.Background())
			return CallbackMsg{events.APIDataFetched{Data: data, Err: err}}
		}

	case effects.LoadToken:
		return func() tea.Msg {
			token, err := e.Store.LoadToken(e.Target)
			if err != nil {
				logger.Warn("failed to load token: %v", err)
				return nil
			}
			return DeliveryMsg{events.TokenReceived{Token: token}}
		}

	case effects.SaveToken:
		return func() tea.Msg {
			if err := e.Store.SaveToken(e.Target, effect.Token); err != nil {
				logger.Warn("failed to save token: %v", err)
			}
			return nil
		}

	case effects.Logout:
		return func() tea.Msg {
			err := e.API.Logout(context.Background())
			if err == nil {
				if derr := e.Store.DeleteToken(e.Target); derr != nil {
					logger.Warn("failed to delete token: %v", derr)
				}
			}
			return CallbackMsg{events.LoggedOut{Err: err}}
		}

	case effects.FetchPipeline:
		return func() tea.Msg {
			pipeline, err := e.API.Pipeline(context.Background(), effect.Team, effect.Pipeline)
			return CallbackMsg{events.PipelineFetched{Generation: effect.Generation, Pipeline: pipeline, Err: err}}
		}

	case effects.FetchJob:
		return func() tea.Msg {
			job, err := e.API.Job(context.Background(), effect.Team, effect.Pipeline, effect.Job)
			return CallbackMsg{events.JobFetched{Generation: effect.Generation, Job: job, Err: err}}
		}

	case effects.FetchJobBuilds:
		return func() tea.Msg {
			builds, err := e.API.JobBuilds(context.Background(), effect.Team, effect.Pipeline, effect.Job, effect.Page)
			return CallbackMsg{events.JobBuildsFetched{
				Generation: effect.Generation,
				Team:       effect.Team,
				Pipeline:   effect.Pipeline,
				Job:        effect.Job,
				Builds:     builds,
				Err:        err,
			}}
		}

	case effects.FetchBuild:
		return func() tea.Msg {
			build, err := e.API.JobBuild(context.Background(), effect.Team, effect.Pipeline, effect.Job, effect.Name)
			return CallbackMsg{events.BuildFetched{Generation: effect.Generation, Build: build, Err: err}}
		}

	case effects.FetchOneOffBuild:
		return func() tea.Msg {
			build, err := e.API.Build(context.Background(), effect.ID)
			return CallbackMsg{events.BuildFetched{Generation: effect.Generation, Build: build, Err: err}}
		}

	case effects.FetchResourceVersions:
		return func() tea.Msg {
			versions, err := e.API.ResourceVersions(context.Background(), effect.Team, effect.Pipeline, effect.Resource, effect.Page)
			return CallbackMsg{events.ResourceVersionsFetched{
				Generation: effect.Generation,
				Team:       effect.Team,
				Pipeline:   effect.Pipeline,
				Resource:   effect.Resource,
				Versions:   versions,
				Err:        err,
			}}
		}

	case effects.TriggerBuild:
		return func() tea.Msg {
			build, err := e.API.TriggerBuild(context.Background(), effect.Team, effect.Pipeline, effect.Job)
			return CallbackMsg{events.BuildTriggered{
				Team:     effect.Team,
				Pipeline: effect.Pipeline,
				Job:      effect.Job,
				Build:    build,
				Err:      err,
			}}
		}

	case effects.AbortBuild:
		return func() tea.Msg {
			err := e.API.AbortBuild(context.Background(), effect.BuildID)
			return CallbackMsg{events.BuildAborted{BuildID: effect.BuildID, Err: err}}
		}

	case effects.TogglePause:
		return func() tea.Msg {
			var err error
			if effect.Paused {
				err = e.API.UnpausePipeline(context.Background(), effect.Team, effect.Pipeline)
			} else {
				err = e.API.PausePipeline(context.Background(), effect.Team, effect.Pipeline)
			}
			return CallbackMsg{events.PipelineToggled{
				Team:     effect.Team,
				Pipeline: effect.Pipeline,
				Paused:   effect.Paused,
				Err:      err,
			}}
		}
	}

	return nil
}
