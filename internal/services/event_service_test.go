package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventix/eventix-be/internal/auth"
	"github.com/eventix/eventix-be/internal/models"
)

func TestNormalizeEventDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"rfc3339", "2026-03-14T09:30:00Z", "2026-03-14"},
		{"rfc3339 with offset", "2026-03-14T23:30:00+05:30", "2026-03-14"},
		{"datetime with T", "2026-03-14T09:30:00", "2026-03-14"},
		{"datetime with space", "2026-03-14 09:30:00", "2026-03-14"},
		{"date only", "2026-03-14", "2026-03-14"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEventDate(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEventDateRejects(t *testing.T) {
	for _, raw := range []string{"", "tomorrow", "14/03/2026", "2026-13-40"} {
		t.Run(raw, func(t *testing.T) {
			_, err := NormalizeEventDate(raw)
			assert.Error(t, err)
		})
	}
}

func TestOwnerScoped(t *testing.T) {
	in := EventInput{Title: "Hackathon", ClubID: 99, CategoryID: 1}

	t.Run("club writes are pinned to its own id", func(t *testing.T) {
		out := ownerScoped(&auth.Claims{ActorID: 3, Role: auth.RoleClub}, in)
		assert.Equal(t, int64(3), out.ClubID)
		assert.Equal(t, "Hackathon", out.Title)
	})

	t.Run("superadmin keeps the payload club id", func(t *testing.T) {
		out := ownerScoped(&auth.Claims{ActorID: 3, Role: auth.RoleSuperAdmin}, in)
		assert.Equal(t, int64(99), out.ClubID)
	})
}

func TestCanMutate(t *testing.T) {
	event := &models.EventCard{ID: 10, ClubID: 5}

	tests := []struct {
		name   string
		claims *auth.Claims
		want   bool
	}{
		{"superadmin mutates anything", &auth.Claims{ActorID: 1, Role: auth.RoleSuperAdmin}, true},
		{"owning club", &auth.Claims{ActorID: 5, Role: auth.RoleClub}, true},
		{"other club", &auth.Claims{ActorID: 6, Role: auth.RoleClub}, false},
		{"plain user", &auth.Claims{ActorID: 5, Role: auth.RoleUser}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canMutate(tt.claims, event))
		})
	}
}
