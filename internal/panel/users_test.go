package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func TestListUsers(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"attributes": {"id": 1, "username": "alex", "email": "alex@example.com",
				"first_name": "Alex", "last_name": "Stone", "language": "en",
				"root_admin": true, "created_at": "2024-01-05T10:00:00+00:00"}},
			{"attributes": {"id": 2, "username": "sam", "email": "sam@example.com"}}
		]}`)
	}))

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != "1" || !users[0].RootAdmin || users[0].Language != "en" {
		t.Fatalf("unexpected first user: %+v", users[0])
	}
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetUser(context.Background(), "99")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/application/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var fields NewUser
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if fields.Username != "sam" || fields.Email != "sam@example.com" {
			t.Errorf("unexpected create payload: %+v", fields)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data": {"attributes": {"id": 42, "username": "sam",
			"email": "sam@example.com", "first_name": "Sam", "last_name": "Lee",
			"language": "en", "root_admin": false,
			"created_at": "2024-06-01T00:00:00+00:00"}}}`)
	}))

	user, err := c.CreateUser(context.Background(), NewUser{
		Username:  "sam",
		Email:     "sam@example.com",
		FirstName: "Sam",
		LastName:  "Lee",
		Password:  "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID != "42" || user.Username != "sam" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := c.CreateUser(context.Background(), NewUser{}); err == nil {
		t.Fatal("expected error for missing required fields")
	}
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	email := "new@example.com"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/application/users/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body) != 1 || body["email"] != email {
			t.Errorf("expected only email in PATCH body, got %v", body)
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"data": {"attributes": {"id": 42}}}`)
	}))

	ok, err := c.UpdateUser(context.Background(), "42", UserUpdate{Email: &email})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if !ok {
		t.Fatal("expected applied update")
	}

	if _, err := c.UpdateUser(context.Background(), "42", UserUpdate{}); err == nil {
		t.Fatal("expected error for empty update")
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/application/users/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	ok, err := c.DeleteUser(context.Background(), "42")
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if !ok {
		t.Fatal("expected deletion accepted")
	}
}

func TestDeleteUserRefusedIsFalse(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// User still owns servers; the panel refuses without it being a fault.
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))

	ok, err := c.DeleteUser(context.Background(), "42")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("expected false for refused deletion")
	}
}
