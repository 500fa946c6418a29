package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"blog-server/auth"
	"blog-server/db"
	"blog-server/db/dbtest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.HashCost = bcrypt.MinCost
	m.Run()
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	dbtest.Setup(t)
	ctx := context.Background()

	first, err := auth.Register(ctx, "a@x.com", "abcd1234", "A")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())
	assert.NotEqual(t, "abcd1234", first.Password)

	second, err := auth.Register(ctx, "b@x.com", "abcd1234", "B")
	require.NoError(t, err)
	assert.False(t, second.IsAdmin())
	assert.Equal(t, db.RoleUser, second.Role)
}

func TestRegisterConcurrentFirstUsersOneAdmin(t *testing.T) {
	dbtest.Setup(t)
	ctx := context.Background()

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = auth.Register(ctx, fmt.Sprintf("u%d@x.com", i), "abcd1234", "U")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	var admins int
	require.NoError(t, db.Conn.Get(&admins, "SELECT COUNT(*) FROM users WHERE role = ?", db.RoleAdmin))
	assert.Equal(t, 1, admins)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	dbtest.Setup(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "a@x.com", "abcd1234", "A")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "A@X.com", "other123", "Impostor")
	assert.True(t, errors.Is(err, auth.ErrDuplicateEmail))

	var count int
	require.NoError(t, db.Conn.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 1, count)
}

func TestLogin(t *testing.T) {
	dbtest.Setup(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "a@x.com", "abcd1234", "A")
	require.NoError(t, err)

	user, err := auth.Login(ctx, " A@x.com ", "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, registered.Id, user.Id)

	_, err = auth.Login(ctx, "a@x.com", "wrong1234")
	assert.True(t, errors.Is(err, auth.ErrBadPassword))

	_, err = auth.Login(ctx, "ghost@x.com", "abcd1234")
	assert.True(t, errors.Is(err, auth.ErrUnknownEmail))
}

func TestCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("abcd1234")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(hash, "abcd1234"))
	assert.False(t, auth.CheckPassword(hash, "abcd12345"))
	assert.False(t, auth.CheckPassword("not-a-hash", "abcd1234"))
}
