// ABOUTME: Job page controller: paginated build history plus manual trigger
// ABOUTME: Stale fetch results are dropped by generation and identity checks

package pages

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

type JobPage struct {
	assets   Assets
	team     string
	pipeline string
	name     string
	page     routes.Page

	generation effects.Generation
	job        api.Job
	builds     []api.Build
	loading    bool
}

func NewJob(assets Assets, r routes.Job) (*JobPage, []effects.Effect) {
	j := &JobPage{
		assets:   assets,
		team:     r.Team,
		pipeline: r.Pipeline,
		name:     r.Name,
		page:     r.Page,
		loading:  true,
	}
	return j, j.refetch()
}

func (*JobPage) Family() routes.Family { return routes.FamilyJob }

func (j *JobPage) Generation() effects.Generation { return j.generation }

func (j *JobPage) refetch() []effects.Effect {
	j.generation = effects.NewGeneration()
	j.loading = true
	return []effects.Effect{
		effects.FetchJob{Generation: j.generation, Team: j.team, Pipeline: j.pipeline, Job: j.name},
		effects.FetchJobBuilds{Generation: j.generation, Team: j.team, Pipeline: j.pipeline, Job: j.name, Page: j.page},
	}
}

func (j *JobPage) URLChanged(r routes.Route) []effects.Effect {
	jr, ok := r.(routes.Job)
	if !ok {
		return nil
	}
	sameIdentity := jr.Team == j.team && jr.Pipeline == j.pipeline && jr.Name == j.name
	samePage := jr.Page == j.page
	j.team, j.pipeline, j.name, j.page = jr.Team, jr.Pipeline, jr.Name, jr.Page
	if sameIdentity && samePage {
		return nil
	}
	return j.refetch()
}

func (j *JobPage) Update(msg Msg, _ routes.Route) []effects.Effect {
	if _, ok := msg.(TriggerBuildRequested); !ok {
		return nil
	}
	return []effects.Effect{effects.TriggerBuild{Team: j.team, Pipeline: j.pipeline, Job: j.name}}
}

func (j *JobPage) HandleCallback(cb events.Callback) []effects.Effect {
	switch cb := cb.(type) {
	case events.JobFetched:
		if cb.Generation != j.generation || cb.Err != nil {
			return nil
		}
		j.job = cb.Job

	case events.JobBuildsFetched:
		// Identity fields guard against a response for a job this page has
		// since navigated away from.
		if cb.Generation != j.generation ||
			cb.Team != j.team || cb.Pipeline != j.pipeline || cb.Job != j.name {
			return nil
		}
		j.loading = false
		if cb.Err == nil {
			j.builds = cb.Builds
		}

	case events.BuildTriggered:
		if cb.Err != nil || cb.Team != j.team || cb.Pipeline != j.pipeline || cb.Job != j.name {
			return nil
		}
		j.builds = append([]api.Build{cb.Build}, j.builds...)
	}
	return nil
}

func (j *JobPage) HandleDelivery(events.Delivery) []effects.Effect { return nil }

func (j *JobPage) Subscriptions() []events.Subscription { return nil }

func (j *JobPage) View(width int) string {
	var b strings.Builder
	b.WriteString(dashboardTitleStyle.Render(j.pipeline + "/" + j.name))
	if j.job.Paused {
		b.WriteString("  " + pausedStyle.Render("paused"))
	}
	b.WriteString("\n")

	if j.loading {
		b.WriteString(dimStyle.Render("loading builds...") + "\n")
	}
	for _, build := range j.builds {
		b.WriteString("  #" + build.Name + "  " + statusStyle(build.Status).Render(string(build.Status)) + "\n")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

func statusStyle(status api.BuildStatus) lipgloss.Style {
	switch status {
	case api.StatusSucceeded:
		return runningStyle
	case api.StatusFailed, api.StatusErrored:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case api.StatusAborted:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
	default:
		return dimStyle
	}
}
