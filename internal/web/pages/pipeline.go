// ABOUTME: Pipeline page controller: groups view plus pause/unpause control
// ABOUTME: Soft transitions refetch only when the pipeline identity changes

package pages

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

type Pipeline struct {
	assets Assets
	team   string
	name   string
	groups []string

	generation effects.Generation
	fetched    bool
	pipeline   api.Pipeline
}

func NewPipeline(assets Assets, r routes.Pipeline) (*Pipeline, []effects.Effect) {
	p := &Pipeline{
		assets:     assets,
		team:       r.Team,
		name:       r.Name,
		groups:     r.Groups,
		generation: effects.NewGeneration(),
	}
	return p, []effects.Effect{p.fetch()}
}

func (*Pipeline) Family() routes.Family { return routes.FamilyPipeline }

func (p *Pipeline) Generation() effects.Generation { return p.generation }

func (p *Pipeline) fetch() effects.Effect {
	return effects.FetchPipeline{Generation: p.generation, Team: p.team, Pipeline: p.name}
}

func (p *Pipeline) URLChanged(r routes.Route) []effects.Effect {
	pr, ok := r.(routes.Pipeline)
	if !ok {
		return nil
	}
	sameIdentity := pr.Team == p.team && pr.Name == p.name
	p.team, p.name, p.groups = pr.Team, pr.Name, pr.Groups
	if sameIdentity {
		// Only the group filter changed; cached data stays valid.
		return nil
	}
	p.fetched = false
	p.generation = effects.NewGeneration()
	return []effects.Effect{p.fetch()}
}

func (p *Pipeline) Update(msg Msg, _ routes.Route) []effects.Effect {
	if _, ok := msg.(TogglePauseRequested); !ok || !p.fetched {
		return nil
	}
	return []effects.Effect{effects.TogglePause{
		Team:     p.team,
		Pipeline: p.name,
		Paused:   p.pipeline.Paused,
	}}
}

func (p *Pipeline) HandleCallback(cb events.Callback) []effects.Effect {
	switch cb := cb.(type) {
	case events.PipelineFetched:
		if cb.Generation != p.generation || cb.Err != nil {
			return nil
		}
		p.pipeline = cb.Pipeline
		p.fetched = true

	case events.PipelineToggled:
		if cb.Err != nil || cb.Team != p.team || cb.Pipeline != p.name {
			return nil
		}
		p.pipeline.Paused = !cb.Paused
	}
	return nil
}

func (p *Pipeline) HandleDelivery(delivery events.Delivery) []effects.Effect {
	ev, ok := delivery.(events.BuildStatusReceived)
	if !ok {
		return nil
	}
	// Surface cluster activity on the favicon while this pipeline is viewed.
	return []effects.Effect{effects.SetFavicon{Status: ev.Status}}
}

func (p *Pipeline) Subscriptions() []events.Subscription {
	return []events.Subscription{events.OnBuildEvents{}}
}

func (p *Pipeline) View(width int) string {
	header := p.team + "/" + p.name
	if p.fetched && p.pipeline.Paused {
		header += "  " + pausedStyle.Render("paused")
	}

	var b strings.Builder
	b.WriteString(dashboardTitleStyle.Render(header))
	b.WriteString("\n")
	for _, g := range p.visibleGroups() {
		b.WriteString("  " + g.Name + " " + dimStyle.Render(strings.Join(g.Jobs, ", ")) + "\n")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

func (p *Pipeline) visibleGroups() []api.GroupConfig {
	if len(p.groups) == 0 {
		return p.pipeline.Groups
	}
	var out []api.GroupConfig
	for _, g := range p.pipeline.Groups {
		for _, want := range p.groups {
			if g.Name == want {
				out = append(out, g)
				break
			}
		}
	}
	return out
}
