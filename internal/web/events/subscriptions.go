// ABOUTME: Subscription declarations naming the deliveries a model wants
// ABOUTME: The runtime keeps exactly the declared sources running

package events

import "time"

// Subscription is a data description of a delivery source. The application
// always declares OnLinkClicked and OnTokenReceived; pages add their own.
type Subscription interface {
	subscription()
}

type OnLinkClicked struct{}

type OnTokenReceived struct{}

// OnClockTick delivers ClockTicked at the given interval.
type OnClockTick struct {
	Interval time.Duration
}

// OnBuildEvents delivers BuildStatusReceived from the event stream.
type OnBuildEvents struct{}

func (OnLinkClicked) subscription() {}
func (OnTokenReceived) subscription() {}
func (OnClockTick) subscription() {}
func (OnBuildEvents) subscription() {}
