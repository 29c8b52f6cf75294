package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Back-office roles. Only admin and accounts may review and send demand drafts.
const (
	RoleAdmin    = "admin"
	RoleAccounts = "accounts"
	RoleSales    = "sales"
	RoleSystem   = "system"
)

const issuer = "estatedesk"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownRole  = errors.New("unknown role")
)

// KnownRole reports whether role is one of the back-office roles.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAccounts, RoleSales, RoleSystem:
		return true
	}
	return false
}

// Claims identify the staff member acting on a request. Subject mirrors UserID.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken signs an HS256 token for a staff member.
func (s *Service) GenerateToken(userID int64, role string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("user id must be positive, got %d", userID)
	}
	if !KnownRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	issued := s.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwtlib.NewNumericDate(issued.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(issued),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken checks signature, expiry and issuer, and that the token names
// a known role and a subject matching user_id.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(tokenStr, claims, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, fmt.Errorf("%w: subject does not match user", ErrInvalidToken)
	}
	if !KnownRole(claims.Role) {
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidToken, ErrUnknownRole, claims.Role)
	}
	return claims, nil
}
