package store

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"librarydesk/pkg/domain"
)

const (
	jwtIssuer   = "librarydesk"
	jwtAudience = "librarydesk-api"
)

// JWTSessionStore issues and validates stateless HS256 tokens carrying the
// staff record (credential stripped) in custom claims.
type JWTSessionStore struct {
	secret []byte
	ttl    time.Duration
}

type staffClaims struct {
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	EmployeeID string           `json:"employeeId"`
	Role       domain.StaffRole `json:"role"`
	Department string           `json:"department"`
	jwt.RegisteredClaims
}

// NewJWTSessionStore builds a stateless JWT session store.
func NewJWTSessionStore(secret string, ttl time.Duration) *JWTSessionStore {
	return &JWTSessionStore{secret: []byte(secret), ttl: ttl}
}

// NewSession creates a signed token for the staff record.
func (s *JWTSessionStore) NewSession(staff domain.Staff) (string, error) {
	now := time.Now().UTC()
	claims := staffClaims{
		Name:       staff.Name,
		Email:      staff.Email,
		EmployeeID: staff.EmployeeID,
		Role:       staff.Role,
		Department: staff.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staff.ID,
			Issuer:    jwtIssuer,
			Audience:  jwt.ClaimStrings{jwtAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GetStaffByToken validates a token and reconstructs the staff record from
// its claims.
func (s *JWTSessionStore) GetStaffByToken(tokenString string) (domain.Staff, bool, error) {
	var claims staffClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(jwtIssuer), jwt.WithAudience(jwtAudience), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return domain.Staff{}, false, nil
	}
	return domain.Staff{
		ID:         claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		EmployeeID: claims.EmployeeID,
		Role:       claims.Role,
		Department: claims.Department,
		Status:     domain.StaffActive,
	}, true, nil
}

// DeleteSession is a no-op for stateless JWT; provided for interface parity.
func (s *JWTSessionStore) DeleteSession(_ string) error {
	return nil
}
