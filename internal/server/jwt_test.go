package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/config"
)

const testSecret = "test-secret-key-that-is-long-enough"

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: testSecret, Leeway: time.Second}
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, userID string) string {
	t.Helper()
	now := time.Now()
	return signToken(t, testSecret, jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
}

func TestJWTVerifier_Valid(t *testing.T) {
	v := NewJWTVerifier(testJWTConfig())

	claims, err := v.Verify(userToken(t, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.GetUserID())

	getter, err := v.ValidateToken(userToken(t, "user-2"))
	require.NoError(t, err)
	assert.Equal(t, "user-2", getter.GetUserID())
}

func TestJWTVerifier_Rejects(t *testing.T) {
	now := time.Now()
	valid := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "empty", token: "", wantErr: "empty"},
		{name: "malformed", token: "not-a-jwt", wantErr: "malformed"},
		{
			name:    "wrong secret",
			token:   signToken(t, "another-secret-that-is-long", jwt.SigningMethodHS256, valid),
			wantErr: "signature",
		},
		{
			name: "expired",
			token: signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			}),
			wantErr: "expired",
		},
		{
			name:    "no expiry",
			token:   signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}),
			wantErr: "failed to parse",
		},
		{
			name:    "wrong algorithm",
			token:   signToken(t, testSecret, jwt.SigningMethodHS512, valid),
			wantErr: "signature",
		},
		{
			name: "no subject",
			token: signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}),
			wantErr: "no subject",
		},
	}

	v := NewJWTVerifier(testJWTConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWTVerifier_Issuer(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Issuer = "https://auth.example.com"
	v := NewJWTVerifier(cfg)

	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))
	good := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1", Issuer: "https://auth.example.com", ExpiresAt: exp,
	})
	bad := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1", Issuer: "https://evil.example.com", ExpiresAt: exp,
	})

	_, err := v.Verify(good)
	assert.NoError(t, err)
	_, err = v.Verify(bad)
	assert.Error(t, err)
}
