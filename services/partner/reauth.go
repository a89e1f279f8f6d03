package partner

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeRevealPayment is the only scope reveal tokens carry.
const ScopeRevealPayment = "payment:reveal"

type reauthClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

type reauthIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (r reauthIssuer) issue(partnerID string) (string, time.Time, error) {
	now := r.now()
	exp := now.Add(r.ttl)
	claims := reauthClaims{
		Scope: ScopeRevealPayment,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   partnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign reauth token: %w", err)
	}
	return signed, exp, nil
}

// verify checks signature, expiry, subject and scope.
func (r reauthIssuer) verify(tokenString, partnerID string) error {
	var claims reauthClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(partnerID),
		jwt.WithTimeFunc(r.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReauthRequired, err)
	}
	if claims.Scope != ScopeRevealPayment {
		return fmt.Errorf("%w: wrong scope", ErrReauthRequired)
	}
	return nil
}
