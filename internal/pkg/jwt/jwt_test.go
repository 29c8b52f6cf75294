package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)

	token, err := svc.GenerateToken(42, RoleAccounts)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, RoleAccounts, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "estatedesk", claims.Issuer)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := New("secret", -time.Minute)
	token, err := svc.GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateRejectsUnknownRoleAndUser(t *testing.T) {
	svc := New("secret", time.Hour)

	_, err := svc.GenerateToken(1, "owner")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = svc.GenerateToken(0, RoleSales)
	assert.Error(t, err)
}

func sign(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestValidateRejectsForgedClaims(t *testing.T) {
	svc := New("secret", time.Hour)
	exp := jwtlib.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]Claims{
		"foreign issuer":   {UserID: 1, Role: RoleAdmin, RegisteredClaims: jwtlib.RegisteredClaims{Issuer: "other-app", Subject: "1", ExpiresAt: exp}},
		"subject mismatch": {UserID: 1, Role: RoleAdmin, RegisteredClaims: jwtlib.RegisteredClaims{Issuer: issuer, Subject: "2", ExpiresAt: exp}},
		"unknown role":     {UserID: 1, Role: "owner", RegisteredClaims: jwtlib.RegisteredClaims{Issuer: issuer, Subject: "1", ExpiresAt: exp}},
		"no expiry":        {UserID: 1, Role: RoleAdmin, RegisteredClaims: jwtlib.RegisteredClaims{Issuer: issuer, Subject: "1"}},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(sign(t, claims))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	valid := Claims{UserID: 1, Role: RoleAdmin, RegisteredClaims: jwtlib.RegisteredClaims{Issuer: issuer, Subject: "1", ExpiresAt: exp}}
	_, err := svc.ValidateToken(sign(t, valid))
	assert.NoError(t, err)
}
