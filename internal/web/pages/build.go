// ABOUTME: Build page controller for job builds and one-off builds
// ABOUTME: Tracks live status from the event stream and drives the favicon

package pages

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

type BuildPage struct {
	assets Assets

	// job-scoped identity; zero for one-off builds
	team     string
	pipeline string
	job      string
	name     string

	oneOffID int

	generation effects.Generation
	fetched    bool
	build      api.Build
	output     viewport.Model
}

func NewBuild(assets Assets, r routes.Build) (*BuildPage, []effects.Effect) {
	b := &BuildPage{
		assets:     assets,
		team:       r.Team,
		pipeline:   r.Pipeline,
		job:        r.Job,
		name:       r.Name,
		generation: effects.NewGeneration(),
		output:     viewport.New(80, 20),
	}
	return b, []effects.Effect{effects.FetchBuild{
		Generation: b.generation,
		Team:       r.Team,
		Pipeline:   r.Pipeline,
		Job:        r.Job,
		Name:       r.Name,
	}}
}

func NewOneOffBuild(assets Assets, r routes.OneOffBuild) (*BuildPage, []effects.Effect) {
	b := &BuildPage{
		assets:     assets,
		oneOffID:   r.ID,
		generation: effects.NewGeneration(),
		output:     viewport.New(80, 20),
	}
	return b, []effects.Effect{effects.FetchOneOffBuild{Generation: b.generation, ID: r.ID}}
}

func (*BuildPage) Family() routes.Family { return routes.FamilyBuild }

func (b *BuildPage) Generation() effects.Generation { return b.generation }

func (b *BuildPage) URLChanged(r routes.Route) []effects.Effect {
	b.generation = effects.NewGeneration()
	b.fetched = false

	switch r := r.(type) {
	case routes.Build:
		b.team, b.pipeline, b.job, b.name = r.Team, r.Pipeline, r.Job, r.Name
		b.oneOffID = 0
		return []effects.Effect{effects.FetchBuild{
			Generation: b.generation,
			Team:       r.Team,
			Pipeline:   r.Pipeline,
			Job:        r.Job,
			Name:       r.Name,
		}}
	case routes.OneOffBuild:
		b.team, b.pipeline, b.job, b.name = "", "", "", ""
		b.oneOffID = r.ID
		return []effects.Effect{effects.FetchOneOffBuild{Generation: b.generation, ID: r.ID}}
	}
	return nil
}

func (b *BuildPage) Update(msg Msg, _ routes.Route) []effects.Effect {
	if _, ok := msg.(AbortBuildRequested); !ok || !b.fetched {
		return nil
	}
	if b.build.Status != api.StatusPending && b.build.Status != api.StatusStarted {
		return nil
	}
	return []effects.Effect{effects.AbortBuild{BuildID: b.build.ID}}
}

func (b *BuildPage) HandleCallback(cb events.Callback) []effects.Effect {
	switch cb := cb.(type) {
	case events.BuildFetched:
		if cb.Generation != b.generation || cb.Err != nil {
			return nil
		}
		b.build = cb.Build
		b.fetched = true
		b.output.SetContent(b.summary())
		return []effects.Effect{effects.SetFavicon{Status: cb.Build.Status}}

	case events.BuildAborted:
		if cb.Err != nil || cb.BuildID != b.build.ID {
			return nil
		}
		b.build.Status = api.StatusAborted
		b.output.SetContent(b.summary())
		return []effects.Effect{effects.SetFavicon{Status: api.StatusAborted}}
	}
	return nil
}

func (b *BuildPage) HandleDelivery(delivery events.Delivery) []effects.Effect {
	ev, ok := delivery.(events.BuildStatusReceived)
	if !ok || !b.fetched || ev.BuildID != b.build.ID {
		return nil
	}
	b.build.Status = ev.Status
	b.output.SetContent(b.summary())
	return []effects.Effect{effects.SetFavicon{Status: ev.Status}}
}

func (b *BuildPage) Subscriptions() []events.Subscription {
	return []events.Subscription{events.OnBuildEvents{}}
}

func (b *BuildPage) View(width int) string {
	title := b.title()
	if b.fetched {
		title += "  " + statusStyle(b.build.Status).Render(string(b.build.Status))
	}
	b.output.Width = width
	return dashboardTitleStyle.Render(title) + "\n" + b.output.View()
}

func (b *BuildPage) title() string {
	switch {
	case b.fetched && b.build.OneOff():
		return fmt.Sprintf("build #%d", b.build.ID)
	case b.oneOffID != 0:
		return fmt.Sprintf("build #%d", b.oneOffID)
	default:
		return b.pipeline + "/" + b.job + " #" + b.name
	}
}

func (b *BuildPage) summary() string {
	s := fmt.Sprintf("status: %s\n", b.build.Status)
	if !b.build.StartTime.IsZero() {
		s += "started: " + b.build.StartTime.Format(time.RFC1123) + "\n"
	}
	if !b.build.EndTime.IsZero() {
		s += "finished: " + b.build.EndTime.Format(time.RFC1123) + "\n"
		s += "duration: " + b.build.EndTime.Sub(b.build.StartTime).String() + "\n"
	}
	return lipgloss.NewStyle().Render(s)
}
