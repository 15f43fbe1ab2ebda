package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/shashiranjanraj/marketplace/app/models"
	"github.com/shashiranjanraj/marketplace/app/repositories"
	"github.com/shashiranjanraj/marketplace/app/requests"
	"github.com/shashiranjanraj/marketplace/pkg/apperr"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/logger"
	"github.com/shashiranjanraj/marketplace/pkg/metrics"
)

const badCredentials = "Incorrect login or password"

// dummyHash is compared against when the login matches no user, so a miss
// costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("marketplace-dummy-password")
	return h
})

type AuthService struct {
	store   *repositories.Store
	tokens  *auth.Issuer
	metrics *metrics.Metrics
}

func NewAuthService(store *repositories.Store, tokens *auth.Issuer, m *metrics.Metrics) *AuthService {
	return &AuthService{store: store, tokens: tokens, metrics: m}
}

// Register creates a user with role "user" and signs it in.
func (s *AuthService) Register(ctx context.Context, in requests.Register) (models.User, auth.TokenPair, error) {
	in.Normalize()
	users := s.store.Users()

	email := ""
	if in.Email != nil {
		email = *in.Email
	}
	taken, err := users.Exists(ctx, in.Handle, email)
	if err != nil {
		return models.User{}, auth.TokenPair{}, fmt.Errorf("register: %w", err)
	}
	if taken {
		return models.User{}, auth.TokenPair{}, apperr.NewConflict("User with this handle or email already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, auth.TokenPair{}, fmt.Errorf("register: hash password: %w", err)
	}
	u := models.User{Handle: in.Handle, Email: in.Email, PasswordHash: hash, IsActive: true, Role: models.RoleUser}
	if err := users.Create(ctx, &u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, auth.TokenPair{}, apperr.Wrap(apperr.Conflict, err, "User with this handle or email already exists")
		}
		return models.User{}, auth.TokenPair{}, fmt.Errorf("register: %w", err)
	}

	pair, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}
	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID, "handle", u.Handle)
	return u, pair, nil
}

// Authenticate checks the credentials and issues a token pair. Every
// failure reads the same so callers cannot probe which part was wrong.
func (s *AuthService) Authenticate(ctx context.Context, in requests.Login) (models.User, auth.TokenPair, error) {
	u, err := s.store.Users().GetByLogin(ctx, in.Identifier())
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		auth.CheckPassword(dummyHash(), in.Password)
		s.metrics.LoginAttempt(false)
		return models.User{}, auth.TokenPair{}, apperr.NewUnauthorized(badCredentials)
	case err != nil:
		return models.User{}, auth.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	if !auth.CheckPassword(u.PasswordHash, in.Password) || !u.IsActive {
		s.metrics.LoginAttempt(false)
		logger.WithCtx(ctx).Info("login rejected", "user_id", u.ID)
		return models.User{}, auth.TokenPair{}, apperr.NewUnauthorized(badCredentials)
	}

	pair, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}
	s.metrics.LoginAttempt(true)
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, raw string) (models.User, auth.TokenPair, error) {
	if raw == "" {
		return models.User{}, auth.TokenPair{}, apperr.NewUnauthorized("Refresh token missing")
	}
	claims, err := s.tokens.Verify(raw, auth.TypeRefresh)
	if err != nil {
		return models.User{}, auth.TokenPair{}, apperr.Wrap(apperr.Unauthorized, err, "Invalid or expired refresh token")
	}
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}
	pair, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}
	return u, pair, nil
}

// Resolve implements middleware.IdentityResolver. The role comes from the
// database so role changes apply to tokens already issued.
func (s *AuthService) Resolve(ctx context.Context, claims *auth.Claims) (auth.Identity, error) {
	u, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: u.ID, Handle: u.Handle, Role: string(u.Role)}, nil
}

func (s *AuthService) activeUser(ctx context.Context, id uint) (models.User, error) {
	u, err := s.store.Users().Get(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return models.User{}, apperr.Wrap(apperr.Unauthorized, err, "User not found")
	case err != nil:
		return models.User{}, fmt.Errorf("load user %d: %w", id, err)
	case !u.IsActive:
		return models.User{}, apperr.NewUnauthorized("Inactive user")
	}
	return u, nil
}

// Me returns the caller's own record.
func (s *AuthService) Me(ctx context.Context, id auth.Identity) (models.User, error) {
	u, err := s.store.Users().Get(ctx, id.UserID)
	return u, classify(err, "me", "User not found")
}

// ListUsers streams users for the admin listing.
func (s *AuthService) ListUsers(ctx context.Context, q requests.UserQuery) (iter.Seq2[models.User, error], repositories.Page) {
	page := repositories.Page{Limit: q.Limit, Offset: q.Offset}.Normalize()
	return s.store.Users().List(ctx, page), page
}

// AssignRole changes another user's role. The superadmin role can be
// neither granted nor revoked through the API. changed is false when the
// user already had the role.
func (s *AuthService) AssignRole(ctx context.Context, actor auth.Identity, in requests.AssignRole) (u models.User, changed bool, err error) {
	role := models.Role(in.Role)
	if role == models.RoleSuperadmin {
		return models.User{}, false, apperr.NewForbidden("The superadmin role cannot be assigned")
	}

	err = s.store.Tx(ctx, func(tx *repositories.Store) error {
		target, err := tx.Users().Get(ctx, in.UserID)
		if err != nil {
			return classify(err, "assign role", "User not found")
		}
		if target.Role == models.RoleSuperadmin {
			return apperr.NewForbidden("The superadmin role cannot be changed")
		}
		if target.Role == role {
			u = target
			return nil
		}
		if err := tx.Users().SetRole(ctx, target.ID, role); err != nil {
			return classify(err, "assign role", "User not found")
		}
		target.Role = role
		u, changed = target, true
		return nil
	})
	if err != nil {
		return models.User{}, false, err
	}
	if changed {
		logger.WithCtx(ctx).Info("role assigned", "by", actor.UserID, "user_id", u.ID, "role", role)
	}
	return u, changed, nil
}

// EnsureSuperadmin creates the bootstrap superadmin unless a user with the
// handle already exists. It reports whether a user was created.
func (s *AuthService) EnsureSuperadmin(ctx context.Context, handle, email, password string) (bool, error) {
	if handle == "" || password == "" {
		return false, nil
	}
	users := s.store.Users()
	_, err := users.GetByHandle(ctx, handle)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("bootstrap superadmin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("bootstrap superadmin: %w", err)
	}
	u := models.User{Handle: handle, PasswordHash: hash, IsActive: true, Role: models.RoleSuperadmin}
	if email != "" {
		u.Email = &email
	}
	if err := users.Create(ctx, &u); err != nil {
		return false, fmt.Errorf("bootstrap superadmin: %w", err)
	}
	logger.WithCtx(ctx).Info("superadmin created", "user_id", u.ID, "handle", handle)
	return true, nil
}
