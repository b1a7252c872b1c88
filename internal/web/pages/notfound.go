// ABOUTME: NotFound page controller shown for unknown routes and missing resources
// ABOUTME: Static aside from the configured illustration asset

package pages

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/calculi-corp/concourse/internal/routes"
	"github.com/calculi-corp/concourse/internal/web/effects"
	"github.com/calculi-corp/concourse/internal/web/events"
)

type NotFound struct {
	assets Assets
}

func NewNotFound(assets Assets) *NotFound {
	return &NotFound{assets: assets}
}

func (*NotFound) Family() routes.Family { return routes.FamilyNotFound }

func (*NotFound) Generation() effects.Generation { return effects.Generation{} }

func (*NotFound) URLChanged(routes.Route) []effects.Effect { return nil }

func (*NotFound) Update(Msg, routes.Route) []effects.Effect { return nil }

func (*NotFound) HandleCallback(events.Callback) []effects.Effect { return nil }

func (*NotFound) HandleDelivery(events.Delivery) []effects.Effect { return nil }

func (*NotFound) Subscriptions() []events.Subscription { return nil }

func (n *NotFound) View(width int) string {
	art := n.assets.NotFoundImage
	if art == "" {
		art = "404"
	}
	msg := art + "\n\nthis page does not exist\n"
	return lipgloss.NewStyle().MaxWidth(width).Padding(1, 2).Render(msg)
}
