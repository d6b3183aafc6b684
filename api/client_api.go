// Package api - API-Methoden des Clients.

package api

import (
	"context"
	"net/http"
)

// Devices returns the device report of the server in priority order.
func (c *Client) Devices(ctx context.Context) (*DevicesResponse, error) {
	var resp DevicesResponse
	if err := c.do(ctx, http.MethodGet, "/api/devices", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Device returns the active device of the server and its capabilities.
func (c *Client) Device(ctx context.Context) (*DeviceResponse, error) {
	var resp DeviceResponse
	if err := c.do(ctx, http.MethodGet, "/api/device", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Heartbeat checks if the server has started and is responsive; if yes, it
// returns nil, otherwise an error.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, http.MethodHead, "/", nil, nil)
}
