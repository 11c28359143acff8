package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// serverRelations is the include parameter for hydrating a server's owner
// and network allocation alongside the base attributes.
const serverRelations = "user,allocation,nest,egg"

// ListServers returns every server the API key can see. With
// includeRelations the owner and allocation are hydrated as well.
func (c *Client) ListServers(ctx context.Context, includeRelations bool) ([]RemoteServer, error) {
	var query url.Values
	if includeRelations {
		query = url.Values{"include": []string{serverRelations}}
	}

	var envelope listEnvelope
	if err := c.request(ctx, http.MethodGet, "/servers", query, nil, &envelope); err != nil {
		return nil, err
	}

	servers := make([]RemoteServer, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var attrs serverAttributes
		if err := json.Unmarshal(item.Attributes, &attrs); err != nil {
			return nil, TransportError{Message: "malformed server attributes: " + err.Error()}
		}
		servers = append(servers, attrs.toServer())
	}
	return servers, nil
}

// GetServer retrieves one server by its panel id. An unknown id surfaces
// as NotFoundError.
func (c *Client) GetServer(ctx context.Context, serverID string) (RemoteServer, error) {
	query := url.Values{"include": []string{serverRelations}}

	var envelope objectEnvelope
	if err := c.request(ctx, http.MethodGet, "/servers/"+url.PathEscape(serverID), query, nil, &envelope); err != nil {
		if IsNotFound(err) {
			return RemoteServer{}, NotFoundError{Resource: "server " + serverID}
		}
		return RemoteServer{}, err
	}

	var attrs serverAttributes
	if err := json.Unmarshal(envelope.Data.Attributes, &attrs); err != nil {
		return RemoteServer{}, TransportError{Message: "malformed server attributes: " + err.Error()}
	}
	return attrs.toServer(), nil
}

// Start signals a server to boot. The start signal is implicit: the power
// endpoint receives no body for it.
func (c *Client) Start(ctx context.Context, serverID string) (bool, error) {
	return c.power(ctx, serverID, "")
}

// Stop signals a graceful shutdown.
func (c *Client) Stop(ctx context.Context, serverID string) (bool, error) {
	return c.power(ctx, serverID, "stop")
}

// Restart signals a restart.
func (c *Client) Restart(ctx context.Context, serverID string) (bool, error) {
	return c.power(ctx, serverID, "restart")
}

// Kill forcibly terminates the server process.
func (c *Client) Kill(ctx context.Context, serverID string) (bool, error) {
	return c.power(ctx, serverID, "kill")
}

// power posts a signal to the server's power endpoint. A false result with
// nil error means the panel accepted the request but rejected the action
// (typically the server is already in the target state); that outcome is
// deliberately distinct from the error taxonomy.
func (c *Client) power(ctx context.Context, serverID, signal string) (bool, error) {
	var body any
	if signal != "" {
		body = map[string]string{"signal": signal}
	}

	status, raw, err := c.do(ctx, http.MethodPost, "/servers/"+url.PathEscape(serverID)+"/power", nil, body)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// Transport fine, action rejected by the panel's state machine.
		return false, nil
	}
	if err := mapStatus(status, raw); err != nil {
		return false, err
	}
	return true, nil
}

// SendCommand forwards a console command to a server. The remote API is
// fire-and-forget here: no console output ever comes back.
func (c *Client) SendCommand(ctx context.Context, serverID, command string) (bool, error) {
	if command == "" {
		return false, fmt.Errorf("panel: command is required")
	}

	status, raw, err := c.do(ctx, http.MethodPost, "/servers/"+url.PathEscape(serverID)+"/command", nil,
		map[string]string{"command": command})
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// Server offline or otherwise unable to receive the command.
		return false, nil
	}
	if err := mapStatus(status, raw); err != nil {
		return false, err
	}
	return true, nil
}

// Resources returns a point-in-time resource usage read for a server.
func (c *Client) Resources(ctx context.Context, serverID string) (ResourceSnapshot, error) {
	var envelope objectEnvelope
	if err := c.request(ctx, http.MethodGet, "/servers/"+url.PathEscape(serverID)+"/resources", nil, nil, &envelope); err != nil {
		if IsNotFound(err) {
			return ResourceSnapshot{}, NotFoundError{Resource: "server " + serverID}
		}
		return ResourceSnapshot{}, err
	}

	var attrs resourceAttributes
	if err := json.Unmarshal(envelope.Data.Attributes, &attrs); err != nil {
		return ResourceSnapshot{}, TransportError{Message: "malformed resource attributes: " + err.Error()}
	}
	return attrs.toSnapshot(), nil
}
