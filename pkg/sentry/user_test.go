package sentry

import (
	"errors"
	"testing"
)

func TestNewUser_RequiresIDOrIPAddress(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		ip      string
		wantErr bool
	}{
		{"both empty", "", "", true},
		{"id only", "u1", "", false},
		{"ip only", "", "203.0.113.9", false},
		{"both set", "u1", "203.0.113.9", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.id, tt.ip)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewUser succeeded, want error")
				}
				if !errors.Is(err, ErrInvalidUser) {
					t.Errorf("error = %v, want ErrInvalidUser", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewUser returned error: %v", err)
			}
			if user.ID() != tt.id {
				t.Errorf("ID = %q, want %q", user.ID(), tt.id)
			}
			if user.IPAddress() != tt.ip {
				t.Errorf("IPAddress = %q, want %q", user.IPAddress(), tt.ip)
			}
		})
	}
}

func TestUser_Wire_OmitsUnsetFields(t *testing.T) {
	user, err := NewUser("u1", "")
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}

	obj := user.wire()
	if len(obj) != 1 {
		t.Errorf("wire object has %d keys, want 1: %v", len(obj), obj)
	}
	if obj["id"] != "u1" {
		t.Errorf("id = %v, want %q", obj["id"], "u1")
	}
}

func TestUser_Wire_AllFields(t *testing.T) {
	user, err := NewUser("u1", "203.0.113.9",
		WithUsername("jdoe"),
		WithEmail("jdoe@example.com"),
	)
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}

	obj := user.wire()
	want := map[string]any{
		"id":         "u1",
		"username":   "jdoe",
		"email":      "jdoe@example.com",
		"ip_address": "203.0.113.9",
	}
	for key, value := range want {
		if obj[key] != value {
			t.Errorf("wire[%q] = %v, want %v", key, obj[key], value)
		}
	}
	if len(obj) != len(want) {
		t.Errorf("wire object has %d keys, want %d", len(obj), len(want))
	}
}

func TestUser_Wire_ExtrasFlattenedInline(t *testing.T) {
	user, err := NewUser("u1", "", WithUserExtras(map[string]any{
		"plan": "enterprise",
		"id":   "spoofed",
	}))
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}

	obj := user.wire()
	if obj["plan"] != "enterprise" {
		t.Errorf("extra key plan = %v, want %q", obj["plan"], "enterprise")
	}
	// Fixed identity fields always win over colliding extras.
	if obj["id"] != "u1" {
		t.Errorf("id = %v, want %q (extras must not shadow it)", obj["id"], "u1")
	}
}
