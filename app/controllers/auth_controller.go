package controllers

import (
	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/app/resources"
	"github.com/shashiranjanraj/marketplace/app/services"
	"github.com/shashiranjanraj/marketplace/config"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/ctx"
	"github.com/shashiranjanraj/marketplace/pkg/resource"
)

type AuthController struct {
	service *services.AuthService
	policy  config.SecurityPolicy
}

func NewAuthController(service *services.AuthService, policy config.SecurityPolicy) *AuthController {
	return &AuthController{service: service, policy: policy}
}

// tokenBody is the login and refresh response payload.
func tokenBody(u models.User, pair auth.TokenPair) resource.Map {
	return resource.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
		"expires_in":    int(pair.AccessTTL.Seconds()),
		"user":          resource.One(resources.User, u),
	}
}

// Register POST /auth/register
func (ac *AuthController) Register(c *ctx.Context) {
	var in requests.Register
	if !c.BindJSON(&in) {
		return
	}
	u, pair, err := ac.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	auth.SetSessionCookies(c.W, ac.policy, pair)
	c.Created(resource.One(resources.User, u))
}

// Login POST /auth/login
func (ac *AuthController) Login(c *ctx.Context) {
	var in requests.Login
	if !c.BindJSON(&in) {
		return
	}
	u, pair, err := ac.service.Authenticate(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	auth.SetSessionCookies(c.W, ac.policy, pair)
	c.Success(tokenBody(u, pair))
}

// Logout POST /auth/logout
func (ac *AuthController) Logout(c *ctx.Context) {
	auth.ClearSessionCookies(c.W, ac.policy)
	c.Success(resource.Map{"msg": "logged out"})
}

// Refresh POST /auth/refresh
func (ac *AuthController) Refresh(c *ctx.Context) {
	raw, _ := auth.TokenFromRequest(c.R, auth.RefreshCookie)
	u, pair, err := ac.service.Refresh(c.Context(), raw)
	if err != nil {
		auth.ClearSessionCookies(c.W, ac.policy)
		c.Fail(err)
		return
	}
	auth.SetSessionCookies(c.W, ac.policy, pair)
	c.Success(tokenBody(u, pair))
}

// Me GET /auth/me
func (ac *AuthController) Me(c *ctx.Context) {
	u, err := ac.service.Me(c.Context(), c.MustIdentity())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.One(resources.User, u))
}

// Users GET /auth/admin/users
func (ac *AuthController) Users(c *ctx.Context) {
	q, errs := requests.ParseUserQuery(c.R.URL.Query())
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	seq, page := ac.service.ListUsers(c.Context(), q)
	items, err := resource.Collect(resources.User, seq)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.NewPage(items, page.Limit, page.Offset))
}

// AssignRole POST /auth/admin/assign-role
func (ac *AuthController) AssignRole(c *ctx.Context) {
	var in requests.AssignRole
	if !c.BindJSON(&in) {
		return
	}
	u, changed, err := ac.service.AssignRole(c.Context(), c.MustIdentity(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	if !changed {
		c.Message("User already has this role")
		return
	}
	c.Success(resource.One(resources.User, u))
}
