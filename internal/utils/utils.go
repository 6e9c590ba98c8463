package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the storefront's session token claims. Subject is the customer email.
type Claims struct {
	ClientID string `json:"cid"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a JWT token
func GenerateJWT(email, clientID string, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Second * time.Duration(cfg.JWT.ExpiresIn))),
		},
	}

	// Sign the token with the secret
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT validates a JWT token
func ValidateJWT(tokenString string, cfg *config.Config) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateRandomString generates a random string of the specified length
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:length], nil
}

const referenceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateReference returns an order reference: "rf" followed by six lowercase base-36 characters
func GenerateReference() string {
	b := make([]byte, 6)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			n = big.NewInt(time.Now().UnixNano() % int64(len(referenceAlphabet)))
		}
		b[i] = referenceAlphabet[n.Int64()]
	}
	return "rf" + string(b)
}
