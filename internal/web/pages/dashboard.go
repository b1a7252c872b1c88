// ABOUTME: Dashboard page controller: pipeline overview with search filtering
// ABOUTME: Fetches the combined API payload and refreshes ages on clock ticks

package pages

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

var (
	dashboardTitleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	pausedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	runningStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	dimStyle            = lipgloss.NewStyle().Faint(true)
)

type Dashboard struct {
	assets      Assets
	search      string
	highDensity bool

	loading bool
	spin    spinner.Model
	data    api.APIData
	now     time.Time
}

func NewDashboard(assets Assets, r routes.Dashboard) (*Dashboard, []effects.Effect) {
	d := &Dashboard{
		assets:      assets,
		search:      r.Search,
		highDensity: r.HighDensity,
		loading:     true,
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	return d, []effects.Effect{effects.FetchAPIData{}}
}

func (*Dashboard) Family() routes.Family { return routes.FamilyDashboard }

func (*Dashboard) Generation() effects.Generation { return effects.Generation{} }

func (d *Dashboard) URLChanged(r routes.Route) []effects.Effect {
	dr, ok := r.(routes.Dashboard)
	if !ok {
		return nil
	}
	d.search = dr.Search
	d.highDensity = dr.HighDensity
	return nil
}

func (d *Dashboard) Update(msg Msg, _ routes.Route) []effects.Effect {
	sc, ok := msg.(SearchChanged)
	if !ok {
		return nil
	}
	d.search = sc.Query
	// Keep the visible URL shareable without a full navigation.
	return []effects.Effect{effects.ModifyURL{
		Route: routes.Dashboard{Search: d.search, HighDensity: d.highDensity},
	}}
}

func (d *Dashboard) HandleCallback(cb events.Callback) []effects.Effect {
	fetched, ok := cb.(events.APIDataFetched)
	if !ok {
		return nil
	}
	d.loading = false
	if fetched.Err == nil {
		d.data = fetched.Data
	}
	return nil
}

func (d *Dashboard) HandleDelivery(delivery events.Delivery) []effects.Effect {
	tick, ok := delivery.(events.ClockTicked)
	if !ok {
		return nil
	}
	d.now = tick.Time
	d.spin, _ = d.spin.Update(spinner.TickMsg{Time: tick.Time})
	return nil
}

func (d *Dashboard) Subscriptions() []events.Subscription {
	return []events.Subscription{events.OnClockTick{Interval: time.Second}}
}

func (d *Dashboard) View(width int) string {
	if d.loading {
		return d.spin.View() + " loading pipelines..."
	}

	var b strings.Builder
	b.WriteString(dashboardTitleStyle.Render("dashboard"))
	if d.search != "" {
		b.WriteString(dimStyle.Render(" search: " + d.search))
	}
	b.WriteString("\n")

	for _, p := range d.visiblePipelines() {
		state := runningStyle.Render("running")
		if p.Paused {
			state = pausedStyle.Render("paused")
		}
		line := p.TeamName + "/" + p.Name + "  " + state
		if !d.highDensity {
			line += "  " + dimStyle.Render(d.assets.PipelineRunningKeyframes)
		}
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (d *Dashboard) visiblePipelines() []api.Pipeline {
	if d.search == "" {
		return d.data.Pipelines
	}
	var out []api.Pipeline
	for _, p := range d.data.Pipelines {
		if strings.Contains(p.Name, d.search) || strings.Contains(p.TeamName, d.search) {
			out = append(out, p)
		}
	}
	return out
}
