package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListUsers returns every user account on the panel.
func (c *Client) ListUsers(ctx context.Context) ([]RemoteUser, error) {
	var envelope listEnvelope
	if err := c.request(ctx, http.MethodGet, "/users", nil, nil, &envelope); err != nil {
		return nil, err
	}

	users := make([]RemoteUser, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var attrs userAttributes
		if err := json.Unmarshal(item.Attributes, &attrs); err != nil {
			return nil, TransportError{Message: "malformed user attributes: " + err.Error()}
		}
		users = append(users, attrs.toUser())
	}
	return users, nil
}

// GetUser retrieves one user by panel id. An unknown id surfaces as
// NotFoundError.
func (c *Client) GetUser(ctx context.Context, userID string) (RemoteUser, error) {
	var envelope objectEnvelope
	if err := c.request(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, nil, &envelope); err != nil {
		if IsNotFound(err) {
			return RemoteUser{}, NotFoundError{Resource: "user " + userID}
		}
		return RemoteUser{}, err
	}

	var attrs userAttributes
	if err := json.Unmarshal(envelope.Data.Attributes, &attrs); err != nil {
		return RemoteUser{}, TransportError{Message: "malformed user attributes: " + err.Error()}
	}
	return attrs.toUser(), nil
}

// CreateUser provisions a new panel user and returns the created account.
func (c *Client) CreateUser(ctx context.Context, fields NewUser) (RemoteUser, error) {
	if fields.Username == "" || fields.Email == "" {
		return RemoteUser{}, fmt.Errorf("panel: username and email are required")
	}

	var envelope objectEnvelope
	if err := c.request(ctx, http.MethodPost, "/users", nil, fields, &envelope); err != nil {
		return RemoteUser{}, err
	}

	var attrs userAttributes
	if err := json.Unmarshal(envelope.Data.Attributes, &attrs); err != nil {
		return RemoteUser{}, TransportError{Message: "malformed user attributes: " + err.Error()}
	}
	return attrs.toUser(), nil
}

// UpdateUser applies a partial update to a panel user. The false result
// with nil error mirrors the power operations: the panel accepted the
// request but applied nothing.
func (c *Client) UpdateUser(ctx context.Context, userID string, update UserUpdate) (bool, error) {
	if update.IsEmpty() {
		return false, fmt.Errorf("panel: update has no fields")
	}

	status, raw, err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID), nil, update)
	if err != nil {
		return false, err
	}
	if status == http.StatusUnprocessableEntity {
		return false, nil
	}
	if err := mapStatus(status, raw); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteUser removes a panel user.
func (c *Client) DeleteUser(ctx context.Context, userID string) (bool, error) {
	status, raw, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return false, err
	}
	if status == http.StatusUnprocessableEntity {
		// The panel refuses to delete users that still own servers.
		return false, nil
	}
	if err := mapStatus(status, raw); err != nil {
		return false, err
	}
	return true, nil
}
