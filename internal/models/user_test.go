package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Role
		wantErr bool
	}{
		{input: "", want: models.RoleUser},
		{input: "user", want: models.RoleUser},
		{input: "Admin", want: models.RoleAdmin},
		{input: " admin ", want: models.RoleAdmin},
		{input: "superuser", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := models.ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, models.RoleUser.Valid())
	assert.True(t, models.RoleAdmin.Valid())
	assert.False(t, models.Role("owner").Valid())
	assert.True(t, models.RoleAdmin.IsAdmin())
	assert.False(t, models.RoleUser.IsAdmin())
}

func TestNewUser(t *testing.T) {
	now := time.Now().UTC()
	user := models.NewUser("Ada", "ada@example.com", models.RoleUser)

	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash, "PasswordHash should be empty initially")
	assert.Equal(t, int64(0), user.ID, "A new User should have zero ID until saved to database")
	assert.WithinDuration(t, now, user.CreatedAt, time.Second)
	assert.Equal(t, "users", user.TableName())
}

func TestUser_Sanitize(t *testing.T) {
	user := &models.User{
		ID:           1,
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
		Salt:         "salt_value",
		Role:         models.RoleAdmin,
	}

	sanitized := user.Sanitize()

	assert.Equal(t, user.ID, sanitized.ID)
	assert.Equal(t, user.Role, sanitized.Role)
	assert.Empty(t, sanitized.PasswordHash)
	assert.Empty(t, sanitized.Salt)
	assert.Equal(t, "hashed_password", user.PasswordHash, "original must be untouched")
}

func TestUser_ToResponse(t *testing.T) {
	user := &models.User{ID: 9, Name: "Ada", Email: "ada@example.com", Role: models.RoleUser, PasswordHash: "x"}

	resp := user.ToResponse()

	assert.Equal(t, &models.UserResponse{ID: 9, Name: "Ada", Email: "ada@example.com", Role: models.RoleUser}, resp)
}

func TestPasswordResetToken_IsValidAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	token := models.NewPasswordResetToken(3, "digest", now, time.Hour)

	assert.Equal(t, now.Add(time.Hour), token.ExpiresAt)
	assert.True(t, token.IsValidAt(now))
	assert.True(t, token.IsValidAt(now.Add(59*time.Minute)))
	assert.False(t, token.IsValidAt(now.Add(time.Hour)), "expiry instant is already invalid")
	assert.False(t, token.IsValidAt(now.Add(2*time.Hour)))

	token.Used = true
	assert.False(t, token.IsValidAt(now))
}
