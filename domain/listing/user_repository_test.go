package listing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sndeals/errors"
)

func TestUserRepository(t *testing.T) {
	r := newRepositories(t)
	ctx := context.Background()

	u := &User{Login: " JDoe ", Email: "JDoe@Nature.com", FirstName: "Jane", Activated: true}
	require.NoError(t, r.Users.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "jdoe", u.Login)

	got, err := r.Users.FindOneByLogin(ctx, "JDOE")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.Activated)

	got, err = r.Users.FindOneByEmail(ctx, "jdoe@nature.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)

	_, err = r.Users.FindOneByLogin(ctx, "nobody")
	assert.True(t, errors.IsNotFound(err))

	err = r.Users.Create(ctx, &User{Login: "jdoe", Email: "other@nature.com"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeConflict))

	err = r.Users.Create(ctx, &User{Login: "mallory", Email: "mallory@example.com"})
	assert.True(t, errors.IsValidation(err))
}
