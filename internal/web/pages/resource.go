// ABOUTME: Resource page controller: paginated version history for a resource
// ABOUTME: Mirrors the job page's generation-based stale response handling

package pages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

type ResourcePage struct {
	assets   Assets
	team     string
	pipeline string
	name     string
	page     routes.Page

	generation effects.Generation
	versions   []api.Version
	loading    bool
}

func NewResource(assets Assets, r routes.Resource) (*ResourcePage, []effects.Effect) {
	p := &ResourcePage{
		assets:   assets,
		team:     r.Team,
		pipeline: r.Pipeline,
		name:     r.Name,
		page:     r.Page,
		loading:  true,
	}
	return p, p.refetch()
}

func (*ResourcePage) Family() routes.Family { return routes.FamilyResource }

func (p *ResourcePage) Generation() effects.Generation { return p.generation }

func (p *ResourcePage) refetch() []effects.Effect {
	p.generation = effects.NewGeneration()
	p.loading = true
	return []effects.Effect{effects.FetchResourceVersions{
		Generation: p.generation,
		Team:       p.team,
		Pipeline:   p.pipeline,
		Resource:   p.name,
		Page:       p.page,
	}}
}

func (p *ResourcePage) URLChanged(r routes.Route) []effects.Effect {
	rr, ok := r.(routes.Resource)
	if !ok {
		return nil
	}
	same := rr.Team == p.team && rr.Pipeline == p.pipeline && rr.Name == p.name && rr.Page == p.page
	p.team, p.pipeline, p.name, p.page = rr.Team, rr.Pipeline, rr.Name, rr.Page
	if same {
		return nil
	}
	return p.refetch()
}

func (p *ResourcePage) Update(Msg, routes.Route) []effects.Effect { return nil }

func (p *ResourcePage) HandleCallback(cb events.Callback) []effects.Effect {
	fetched, ok := cb.(events.ResourceVersionsFetched)
	if !ok {
		return nil
	}
	if fetched.Generation != p.generation ||
		fetched.Team != p.team || fetched.Pipeline != p.pipeline || fetched.Resource != p.name {
		return nil
	}
	p.loading = false
	if fetched.Err == nil {
		p.versions = fetched.Versions
	}
	return nil
}

func (p *ResourcePage) HandleDelivery(events.Delivery) []effects.Effect { return nil }

func (p *ResourcePage) Subscriptions() []events.Subscription { return nil }

func (p *ResourcePage) View(width int) string {
	var b strings.Builder
	b.WriteString(dashboardTitleStyle.Render(p.pipeline + "/" + p.name))
	b.WriteString("\n")

	if p.loading {
		b.WriteString(dimStyle.Render("loading versions...") + "\n")
	}
	for _, v := range p.versions {
		marker := "✓"
		if !v.Enabled {
			marker = "✗"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", marker, formatVersion(v.Version)))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

func formatVersion(v map[string]string) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+v[k])
	}
	return strings.Join(parts, " ")
}
