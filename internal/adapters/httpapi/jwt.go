package httpapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"runtrack/internal/domain/entities"
	"runtrack/internal/policy"
)

const tokenTTL = 168 * time.Hour

// generateToken issues an HS256 token carrying the user id and roles.
func generateToken(secret string, user *entities.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"roles":   user.EffectiveRoles(),
		"exp":     now.Add(tokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken verifies the token and extracts the actor. Expiry is checked
// against the injected clock, the same time source that minted the token.
func parseToken(secret, tokenString string, now func() time.Time) (policy.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(now))
	if err != nil || !token.Valid {
		return policy.Actor{}, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Actor{}, fmt.Errorf("unexpected claims type")
	}

	actor := policy.Actor{}
	if id, ok := claims["user_id"].(float64); ok {
		actor.UserID = uint(id)
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, role := range roles {
			if s, ok := role.(string); ok {
				actor.Roles = append(actor.Roles, s)
			}
		}
	}
	if actor.UserID == 0 {
		return policy.Actor{}, fmt.Errorf("missing user_id claim")
	}
	return actor, nil
}
