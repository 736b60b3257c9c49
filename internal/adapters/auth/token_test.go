package auth

import (
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue(domain.Identity{UserID: "user-123", Email: "u@example.com", Nickname: "u"}, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "u", claims.Nickname)
}

func TestJWTVerifier_Verify(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)
	verifier := NewJWTVerifier(secret)

	valid, err := issuer.Issue(domain.Identity{UserID: "user-123", Email: "ada@example.com"}, time.Hour)
	require.NoError(t, err)
	expired, err := issuer.Issue(domain.Identity{UserID: "user-123"}, -time.Minute)
	require.NoError(t, err)
	otherSecret, err := NewJWTIssuer("other").Issue(domain.Identity{UserID: "user-123"}, time.Hour)
	require.NoError(t, err)
	noSubject, err := issuer.Issue(domain.Identity{Email: "x@example.com"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		want        domain.Identity
		wantErr     bool
		wantExpired bool
	}{
		{
			name:  "valid token derives nickname from email",
			token: valid,
			want:  domain.Identity{UserID: "user-123", Email: "ada@example.com", Nickname: "ada"},
		},
		{name: "expired", token: expired, wantErr: true, wantExpired: true},
		{name: "wrong secret", token: otherSecret, wantErr: true},
		{name: "missing subject", token: noSubject, wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnauthenticated)
				assert.Equal(t, tt.wantExpired, IsExpired(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJWTVerifier_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwtClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTVerifier("test-secret").Verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
