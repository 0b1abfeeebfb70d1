package controllers

import (
	"errors"
	"net/http"

	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/ctx"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	u, err := uc.users.Get(c.Context(), id)
	respond(c, c.Success, u, err)
}

func (uc *UserController) Store(c *ctx.Context) {
	var in services.UserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.users.Create(c.Context(), in)
	respond(c, c.Created, u, err)
}

func (uc *UserController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.UserUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.users.Update(c.Context(), id, in)
	respond(c, c.Success, u, err)
}

// Destroy deletes the user together with its profile.
func (uc *UserController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := uc.users.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("User deleted")
}

// AuthController handles sign-up and sign-in.
type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in services.UserInput
	if !c.BindJSON(&in) {
		return
	}
	sess, err := ac.users.Register(c.Context(), in)
	respond(c, c.Created, sess, err)
}

func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	sess, err := ac.users.Login(c.Context(), in)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.Error(http.StatusUnauthorized, "Invalid email or password")
		return
	}
	respond(c, c.Success, sess, err)
}
