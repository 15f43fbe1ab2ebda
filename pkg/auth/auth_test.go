package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/marketplace/config"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
)

func TestIssueAndVerify(t *testing.T) {
	iss := auth.NewIssuer("secret", time.Hour, 24*time.Hour)

	pair, err := iss.Issue(7, auth.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, pair.CSRF)

	claims, err := iss.Verify(pair.AccessToken, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, auth.RoleUser, claims.Role)
	assert.Equal(t, pair.CSRF, claims.CSRF)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	refresh, err := iss.Verify(pair.RefreshToken, auth.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, pair.CSRF, refresh.CSRF)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	iss := auth.NewIssuer("secret", time.Hour, time.Hour)
	pair, err := iss.Issue(1, auth.RoleUser)
	require.NoError(t, err)

	_, err = iss.Verify(pair.RefreshToken, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrWrongType)
}

func TestVerifyRejectsExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	old := auth.NewIssuer("secret", time.Minute, time.Minute).WithClock(func() time.Time { return past })
	pair, err := old.Issue(1, auth.RoleUser)
	require.NoError(t, err)

	_, err = auth.NewIssuer("secret", time.Minute, time.Minute).Verify(pair.AccessToken, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsForeignSecretAndAlgorithm(t *testing.T) {
	pair, err := auth.NewIssuer("other", time.Hour, time.Hour).Issue(1, auth.RoleUser)
	require.NoError(t, err)

	iss := auth.NewIssuer("secret", time.Hour, time.Hour)
	_, err = iss.Verify(pair.AccessToken, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{UserID: 1, Type: auth.TypeAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(unsigned, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("p@ss1234")
	require.NoError(t, err)
	assert.NotEqual(t, "p@ss1234", hash)
	assert.True(t, auth.CheckPassword(hash, "p@ss1234"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestIdentityContext(t *testing.T) {
	ctx := auth.WithIdentity(t.Context(), auth.Identity{UserID: 3, Role: auth.RoleManager})
	id, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(3), id.UserID)
	assert.True(t, id.IsStaff())
	assert.False(t, auth.Identity{Role: auth.RoleUser}.IsStaff())

	_, ok = auth.FromContext(t.Context())
	assert.False(t, ok)
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSessionCookiesFollowPolicy(t *testing.T) {
	pair := auth.TokenPair{AccessToken: "a", RefreshToken: "r", CSRF: "c", AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour}

	rec := httptest.NewRecorder()
	auth.SetSessionCookies(rec, config.PolicyFor(false), pair)
	prod := cookiesByName(rec)

	require.Contains(t, prod, auth.AccessCookie)
	assert.True(t, prod[auth.AccessCookie].HttpOnly)
	assert.True(t, prod[auth.AccessCookie].Secure)
	assert.Equal(t, http.SameSiteStrictMode, prod[auth.AccessCookie].SameSite)
	assert.Equal(t, 3600, prod[auth.AccessCookie].MaxAge)
	assert.Equal(t, 7200, prod[auth.RefreshCookie].MaxAge)
	require.Contains(t, prod, auth.CSRFCookie)
	assert.False(t, prod[auth.CSRFCookie].HttpOnly)
	assert.Equal(t, "c", prod[auth.CSRFCookie].Value)
	assert.Equal(t, "true", prod[auth.LoggedInCookie].Value)

	rec = httptest.NewRecorder()
	auth.SetSessionCookies(rec, config.PolicyFor(true), pair)
	dev := cookiesByName(rec)
	assert.False(t, dev[auth.AccessCookie].Secure)
	assert.Equal(t, http.SameSiteLaxMode, dev[auth.AccessCookie].SameSite)
	assert.NotContains(t, dev, auth.CSRFCookie)
}

func TestClearSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	auth.ClearSessionCookies(rec, config.PolicyFor(true))

	cleared := cookiesByName(rec)
	for _, name := range []string{auth.AccessCookie, auth.RefreshCookie, auth.CSRFCookie, auth.LoggedInCookie} {
		require.Contains(t, cleared, name)
		assert.Equal(t, -1, cleared[name].MaxAge, name)
		assert.Empty(t, cleared[name].Value, name)
	}
}
