package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewManager("test-secret", 10*time.Minute, false)
	require.NoError(t, err)

	token, err := m.IssueToken(42)
	require.NoError(t, err)

	userID, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenRejection(t *testing.T) {
	m, err := NewManager("test-secret", 10*time.Minute, false)
	require.NoError(t, err)

	_, err = m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Tokens signed with another secret never verify.
	other, err := NewManager("other-secret", 10*time.Minute, false)
	require.NoError(t, err)
	token, err := other.IssueToken(7)
	require.NoError(t, err)
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestExpiredToken(t *testing.T) {
	m, err := NewManager("test-secret", time.Millisecond, false)
	require.NoError(t, err)

	token, err := m.IssueToken(1)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMiddleware(t *testing.T) {
	m, err := NewManager("test-secret", 10*time.Minute, false)
	require.NoError(t, err)

	var gotUserID int64
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	}))

	// No cookie.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())

	// Valid session cookie.
	token, err := m.IssueToken(99)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(99), gotUserID)
}

func TestSessionCookie(t *testing.T) {
	m, err := NewManager("test-secret", 10*time.Minute, false)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.SetSessionCookie(rec, "token-value")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 600, cookies[0].MaxAge)

	rec = httptest.NewRecorder()
	m.ClearSessionCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}
