// ABOUTME: WebSocket client converting stream events into typed deliveries
// ABOUTME: Unknown event types are skipped so the protocol can grow

package eventstream

import (
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/calculi-corp/concourse/internal/web/events"
)

type Client struct {
	conn *websocket.Conn
}

func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial event stream: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Next blocks until the stream yields a delivery the application understands.
func (c *Client) Next() (events.Delivery, error) {
	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			return nil, fmt.Errorf("event stream read failed: %w", err)
		}

		switch ev.Type {
		case EventTypeBuildStatus:
			return events.BuildStatusReceived{BuildID: ev.BuildID, Status: ev.Status}, nil
		case EventTypeToken:
			return events.TokenReceived{Token: ev.Token}, nil
		}
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
