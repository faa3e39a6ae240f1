package identity

import (
	"os"
	"testing"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var now = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestNewAccount(t *testing.T) {
	t.Run("hashes password", func(t *testing.T) {
		a, err := NewAccount(RoleAdmin, AccountDetails{Name: "Sana", Email: " Sana@Shop.PK "}, "s3cret-pass", now)
		require.NoError(t, err)

		assert.NotEmpty(t, a.ID)
		assert.Equal(t, "sana@shop.pk", a.Email)
		assert.Equal(t, StatusActive, a.Status)
		assert.NotEqual(t, "s3cret-pass", a.PasswordHash)
		assert.True(t, a.CheckPassword("s3cret-pass"))
		assert.False(t, a.CheckPassword("wrong-pass"))
		assert.Equal(t, shared.KeyAdmins, a.Role.StoreKey())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewAccount("owner", AccountDetails{Name: "x", Email: "x@y.pk"}, "password1", now)
		assert.True(t, shared.IsValidation(err))

		_, err = NewAccount(RoleUser, AccountDetails{Name: "", Email: "x@y.pk"}, "password1", now)
		assert.True(t, shared.IsValidation(err))

		_, err = NewAccount(RoleUser, AccountDetails{Name: "x", Email: "not-an-email"}, "password1", now)
		assert.True(t, shared.IsValidation(err))

		_, err = NewAccount(RoleUser, AccountDetails{Name: "x", Email: "x@y.pk"}, "short", now)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestAccount_SetStatus(t *testing.T) {
	a, err := NewAccount(RoleUser, AccountDetails{Name: "Bilal", Email: "bilal@shop.pk"}, "password1", now)
	require.NoError(t, err)
	assert.Equal(t, shared.KeyUsers, a.Role.StoreKey())

	require.NoError(t, a.SetStatus(StatusInactive, now))
	assert.Equal(t, StatusInactive, a.Status)
	assert.Error(t, a.SetStatus("banned", now))
}
