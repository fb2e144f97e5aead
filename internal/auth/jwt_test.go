package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/artverse-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = models.User{ID: "6f1c2a8e-3d5b-4c8e-9a1f-2b7d4e6c8a01", Username: "mira"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestVerifier_IssueAndVerify(t *testing.T) {
	v := NewVerifier("secret", time.Hour)

	token, err := v.Issue(testUser)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)
	assert.Equal(t, "mira", claims.Username)
}

func TestVerifier_Rejects(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewVerifier("secret", time.Hour).WithClock(fixedClock(issuedAt))
	valid, err := issuer.Issue(testUser)
	require.NoError(t, err)

	otherSecret, err := NewVerifier("other", time.Hour).WithClock(fixedClock(issuedAt)).Issue(testUser)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           testUser.ID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		now   time.Time
		want  error
	}{
		{"empty", "", issuedAt, ErrMissingToken},
		{"garbage", "not-a-jwt", issuedAt, ErrInvalidToken},
		{"wrong secret", otherSecret, issuedAt, ErrInvalidToken},
		{"expired", valid, issuedAt.Add(2 * time.Hour), ErrInvalidToken},
		{"unsigned", unsigned, issuedAt, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier("secret", time.Hour).WithClock(fixedClock(tt.now))
			_, err := v.Verify(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}

	t.Run("still valid before expiry", func(t *testing.T) {
		v := NewVerifier("secret", time.Hour).WithClock(fixedClock(issuedAt.Add(59 * time.Minute)))
		_, err := v.Verify(valid)
		assert.NoError(t, err)
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		cookie  string
		want    string
		wantErr error
	}{
		{name: "bearer header", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "cookie fallback", cookie: "xyz", want: "xyz"},
		{name: "missing", wantErr: ErrMissingToken},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrMalformedToken},
		{name: "bearer without token", header: "Bearer ", wantErr: ErrMalformedToken},
		{name: "no scheme", header: "abc.def.ghi", wantErr: ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}

			got, err := BearerToken(r)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier("secret", time.Hour)
	token, err := v.Issue(testUser)
	require.NoError(t, err)

	var seen *Claims
	h := v.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("accepts valid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, testUser.ID, seen.UserID)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"Missing auth token"}`, w.Body.String())
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token+"x")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
