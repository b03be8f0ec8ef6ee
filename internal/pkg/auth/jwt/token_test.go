package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret"

func signTestToken(t *testing.T, secret string, expiresAt int64) string {
	t.Helper()

	claims := &Payload{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: expiresAt,
		},
		UserID: "user-a",
		Email:  "user-a@example.com",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseToken(t *testing.T) {
	token := signTestToken(t, testSecret, time.Now().Add(time.Hour).Unix())

	payload, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "user-a", payload.UserID)
	require.Equal(t, "user-a@example.com", payload.Email)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token := signTestToken(t, "other_secret", time.Now().Add(time.Hour).Unix())

	_, err := ParseToken(token, testSecret)
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token := signTestToken(t, testSecret, time.Now().Add(-time.Hour).Unix())

	_, err := ParseToken(token, testSecret)
	require.Error(t, err)
}

func TestIdentityExtractorMiddleware(t *testing.T) {
	var got *Payload
	handler := IdentityExtractorMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPayloadFromContext(r)
	}))

	// Valid token: identity lands in the context.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, testSecret, time.Now().Add(time.Hour).Unix()))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	require.Equal(t, "user-a", got.UserID)

	// Missing token: the request continues anonymously.
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Nil(t, got)

	// Invalid token: anonymous as well, no rejection at this layer.
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.value")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Nil(t, got)
}
