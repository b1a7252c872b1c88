// ABOUTME: Bubbletea adapter around the pure application controller
// ABOUTME: Routes input to messages, dispatches effects, manages subscriptions

package runtime

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
	"github.com/calculi-corp/concourse/internal/web/pages"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Reverse(true)
	sessionStyle = lipgloss.NewStyle().Faint(true)
)

type routeMsg struct {
	location string
}

type tickMsg time.Time

type streamMsg struct {
	delivery events.Delivery
}

type streamErrMsg struct {
	err error
}

// Program is the imperative shell: it owns the visible location, the window
// size, and the favicon, and drives the pure controller for everything else.
type Program struct {
	flags    web.Flags
	exec     *Executor
	model    web.Model
	location string

	width   int
	height  int
	favicon api.BuildStatus

	ticking   bool
	streaming bool
	loginURL  string
	quitting  bool
}

func NewProgram(flags web.Flags, location, loginURL string, exec *Executor) *Program {
	return &Program{
		flags:    flags,
		exec:     exec,
		location: location,
		loginURL: loginURL,
	}
}

func (p *Program) Init() tea.Cmd {
	model, fx := web.Init(p.flags, p.location)
	p.model = model
	p.exec.API.SetCSRFToken(model.CSRFToken)

	cmds := p.dispatch(fx)
	cmds = append(cmds, p.subscriptionCmds()...)
	return tea.Batch(cmds...)
}

func (p *Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)

	case CallbackMsg:
		return p, p.apply(web.CallbackReceived{Callback: msg.Callback})

	case DeliveryMsg:
		return p, p.apply(web.DeliveryReceived{Delivery: msg.Delivery})

	case routeMsg:
		p.location = msg.location
		return p, p.apply(web.RouteChanged{Route: routes.Parse(msg.location)})

	case tickMsg:
		p.ticking = false
		cmd := p.apply(web.DeliveryReceived{Delivery: events.ClockTicked{Time: time.Time(msg)}})
		return p, cmd

	case streamMsg:
		cmd := p.apply(web.DeliveryReceived{Delivery: msg.delivery})
		return p, tea.Batch(cmd, p.waitForStream())

	case streamErrMsg:
		p.streaming = false
		return p, nil
	}

	return p, nil
}

func (p *Program) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		p.quitting = true
		return p, tea.Quit

	case "d":
		// home, like clicking the nav logo
		return p, p.apply(web.DeliveryReceived{Delivery: events.LinkClicked{Location: "/"}})

	case "L":
		return p, p.apply(web.LogoutRequested{})

	case "t":
		return p, p.apply(web.PageMsg{Msg: pages.TriggerBuildRequested{}})

	case "a":
		return p, p.apply(web.PageMsg{Msg: pages.AbortBuildRequested{}})

	case "p":
		return p, p.apply(web.PageMsg{Msg: pages.TogglePauseRequested{}})
	}
	return p, nil
}

// apply runs one reducer step and dispatches the resulting effects.
func (p *Program) apply(msg web.Msg) tea.Cmd {
	model, fx := web.Update(msg, p.model)
	p.model = model
	p.exec.API.SetCSRFToken(model.CSRFToken)

	cmds := p.dispatch(fx)
	cmds = append(cmds, p.subscriptionCmds()...)
	return tea.Batch(cmds...)
}

// dispatch handles navigation and UI effects locally and hands I/O effects to
// the executor.
func (p *Program) dispatch(fx []effects.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, effect := range fx {
		switch effect := effect.(type) {
		case effects.ModifyURL:
			p.location = effect.Route.String()

		case effects.NavigateTo:
			location := effect.Route.String()
			cmds = append(cmds, func() tea.Msg { return routeMsg{location: location} })

		case effects.SetFavicon:
			p.favicon = effect.Status

		case effects.RedirectToLogin:
			p.quitting = true
			cmds = append(cmds, tea.Quit)

		default:
			if cmd := p.exec.Command(effect); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return cmds
}

// subscriptionCmds arms whatever delivery sources the model currently wants
// and are not already running.
func (p *Program) subscriptionCmds() []tea.Cmd {
	var cmds []tea.Cmd
	for _, sub := range web.Subscriptions(p.model) {
		switch sub := sub.(type) {
		case events.OnClockTick:
			if !p.ticking {
				p.ticking = true
				cmds = append(cmds, tea.Tick(sub.Interval, func(t time.Time) tea.Msg {
					return tickMsg(t)
				}))
			}

		case events.OnBuildEvents, events.OnTokenReceived:
			if p.exec.Stream != nil && !p.streaming {
				p.streaming = true
				cmds = append(cmds, p.waitForStream())
			}
		}
	}
	return cmds
}

func (p *Program) waitForStream() tea.Cmd {
	return func() tea.Msg {
		delivery, err := p.exec.Stream.Next()
		if err != nil {
			return streamErrMsg{err: err}
		}
		return streamMsg{delivery: delivery}
	}
}

func (p *Program) View() string {
	if p.quitting {
		if p.loginURL != "" && p.sessionExpired() {
			return "session expired, log in at " + p.loginURL + "\n"
		}
		return ""
	}

	header := headerStyle.Render("concourse " + p.location)
	if p.favicon != "" {
		header += " " + statusBadge(p.favicon)
	}
	header += " " + sessionStyle.Render(p.sessionLabel())

	width := p.width
	if width == 0 {
		width = 80
	}
	return header + "\n" + p.model.Page.View(width)
}

func (p *Program) sessionLabel() string {
	switch session := p.model.Session.(type) {
	case web.SessionLoggedIn:
		return "logged in as " + session.User.UserName
	case web.SessionLoggedOut:
		return "not logged in"
	default:
		return "checking session..."
	}
}

func (p *Program) sessionExpired() bool {
	_, loggedIn := p.model.Session.(web.SessionLoggedIn)
	return !loggedIn
}

func statusBadge(status api.BuildStatus) string {
	return sessionStyle.Render("[" + string(status) + "]")
}
