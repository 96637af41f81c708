package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "graphacademy@neo4j.com", want: "graphacademy@neo4j.com"},
		{in: "  Mixed.Case@Example.COM ", want: "mixed.case@example.com"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in))
	}
}

func TestUser_PublicOmitsPasswordHash(t *testing.T) {
	user := NewUser(Credential{Email: "a@example.com", PasswordHash: "$2a$10$secret"}, "Alice")
	user.ID = uuid.New()

	public := user.Public()
	assert.Equal(t, user.ID, public.ID)
	assert.Equal(t, "a@example.com", public.Email)
	assert.Equal(t, "Alice", public.Name)

	encoded, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "secret")
	assert.Contains(t, string(encoded), `"userId"`)
}
