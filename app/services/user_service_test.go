package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ada() services.UserInput {
	return services.UserInput{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "s3cret-pass"}
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	svc := services.NewUserService(e.gw)
	ctx := context.Background()

	in := ada()
	in.Role = models.RoleAdmin
	sess, err := svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, sess.User.Role, "self-registration never grants admin")
	assert.Equal(t, "ada@example.com", sess.User.Email)
	assert.NotEqual(t, "s3cret-pass", sess.User.Password)

	claims, err := auth.ValidateToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.UserID, claims.UserID)

	_, err = svc.Register(ctx, ada())
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")

	logged, err := svc.Login(ctx, services.LoginInput{Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.UserID, logged.User.UserID)

	_, err = svc.Login(ctx, services.LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUserUpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	svc := services.NewUserService(e.gw)
	ctx := context.Background()

	u, err := svc.Create(ctx, ada())
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&models.Profile{UserID: u.UserID, City: "London"}).Error)

	updated, err := svc.Update(ctx, u.UserID, services.UserUpdateInput{FirstName: "Augusta", LastName: "King", Email: "augusta@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)

	_, err = svc.Update(ctx, u.UserID+1, services.UserUpdateInput{FirstName: "x", LastName: "y", Email: "z@example.com"})
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, u.UserID))
	assert.Zero(t, e.count(t, &models.Profile{}))
	_, err = svc.Get(ctx, u.UserID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUserDeleteMissingRollsBackProfileDelete(t *testing.T) {
	e := newEnv(t)
	svc := services.NewUserService(e.gw)

	require.NoError(t, e.db.Create(&models.Profile{UserID: 77, City: "Paris"}).Error)

	assert.ErrorIs(t, svc.Delete(context.Background(), 77), services.ErrNotFound)
	assert.Equal(t, int64(1), e.count(t, &models.Profile{}))
}
