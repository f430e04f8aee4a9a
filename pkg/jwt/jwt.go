package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errNoSecret = errors.New("jwt: secret vacío")

// Claims del token de AgroOrdenes. El rol viaja en el token para que el RBAC no consulte la DB;
// el usuario se guarda en sub y se repite en user_id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // admin | agronomo | bodeguero | operario
}

// Generate firma un token HS256 para userID con el rol indicado, vigente expMinutes minutos.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errNoSecret
	}
	if userID == "" {
		return "", fmt.Errorf("jwt: usuario vacío")
	}
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}).SignedString([]byte(secret))
}

// Parse valida firma HS256 y expiración y devuelve el usuario y su rol (puede venir vacío).
func Parse(secret, tokenString string) (userID, role string, err error) {
	if secret == "" {
		return "", "", errNoSecret
	}
	var claims Claims
	_, err = jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", err
	}
	userID = claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", "", fmt.Errorf("jwt: token sin usuario")
	}
	return userID, claims.Role, nil
}
