package authz

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleContentManager))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleContentManager.AtLeast(RoleContentManager))
	assert.False(t, RoleContentManager.AtLeast(RoleAdmin))
	assert.False(t, RoleNone.AtLeast(RoleNone))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "admin", want: RoleAdmin},
		{in: " Admin ", want: RoleAdmin},
		{in: "content_manager", want: RoleContentManager},
		{in: "content-manager", want: RoleContentManager},
		{in: "owner", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed("41661658:admin, 7:content_manager,")
	require.NoError(t, err)
	assert.Equal(t, map[string]Role{"41661658": RoleAdmin, "7": RoleContentManager}, seed)

	_, err = ParseSeed("41661658")
	assert.Error(t, err)

	_, err = ParseSeed("1:root")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry(map[string]Role{"1": RoleAdmin, "2": RoleContentManager, "3": RoleNone})

	assert.True(t, r.IsAuthorized("1"))
	assert.True(t, r.IsAuthorized("2"))
	assert.False(t, r.IsAuthorized("3"), "invalid seed roles are dropped")
	assert.False(t, r.IsAuthorized("unknown"))

	assert.True(t, r.HasAtLeast("2", RoleContentManager))
	assert.False(t, r.HasAtLeast("2", RoleAdmin))
	assert.False(t, r.HasAtLeast("unknown", RoleContentManager))

	role, ok := r.RoleOf("1")
	require.True(t, ok)
	assert.Equal(t, "admin", role.String())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"1", "2"}, r.Users())
}

func TestAddUser(t *testing.T) {
	r := NewRegistry(map[string]Role{"admin": RoleAdmin, "cm": RoleContentManager})

	assert.ErrorIs(t, r.AddUser("cm", "new", RoleContentManager), ErrPermissionDenied)
	assert.ErrorIs(t, r.AddUser("stranger", "new", RoleContentManager), ErrPermissionDenied)
	assert.ErrorIs(t, r.AddUser("admin", "new", Role(9)), ErrInvalidRole)
	assert.False(t, r.IsAuthorized("new"))

	require.NoError(t, r.AddUser("admin", "new", RoleContentManager))
	assert.True(t, r.HasAtLeast("new", RoleContentManager))

	require.NoError(t, r.AddUser("admin", "new", RoleAdmin), "existing entries are overwritten")
	assert.True(t, r.HasAtLeast("new", RoleAdmin))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(map[string]Role{"admin": RoleAdmin})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.AddUser("admin", "u", RoleContentManager)
		}()
		go func() {
			defer wg.Done()
			_ = r.IsAuthorized("u")
		}()
	}
	wg.Wait()
	assert.True(t, r.IsAuthorized("u"))
}

func TestWebhookSecretOK(t *testing.T) {
	assert.True(t, WebhookSecretOK(nil, ""))
	assert.True(t, WebhookSecretOK(map[string]string{"x-telegram-bot-api-secret-token": "s3cret"}, "s3cret"))
	assert.True(t, WebhookSecretOK(map[string]string{"X-TELEGRAM-BOT-API-SECRET-TOKEN": "s3cret"}, "s3cret"))
	assert.False(t, WebhookSecretOK(map[string]string{WebhookSecretHeader: "nope"}, "s3cret"))
	assert.False(t, WebhookSecretOK(nil, "s3cret"))
}
