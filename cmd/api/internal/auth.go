package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned for every token when no signing secret is set.
var ErrNoSecret = errors.New("jwt secret not configured")

type JWTManager struct {
	secretKey    string
	issuer       string
	ownerWallets map[string]bool
}

type Claims struct {
	Wallet string   `json:"wallet"`
	Tiers  []string `json:"tiers,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTManager(secretKey, issuer string, ownerWallets []string) *JWTManager {
	owners := make(map[string]bool, len(ownerWallets))
	for _, w := range ownerWallets {
		owners[strings.ToLower(w)] = true
	}
	return &JWTManager{
		secretKey:    secretKey,
		issuer:       issuer,
		ownerWallets: owners,
	}
}

// Configured reports whether a signing secret is set. Without one no token
// validates and every caller is served the free tier.
func (jm *JWTManager) Configured() bool {
	return jm.secretKey != ""
}

func (jm *JWTManager) GenerateToken(wallet string, tiers []string, expirationHours int) (string, error) {
	if !jm.Configured() {
		return "", ErrNoSecret
	}
	expirationTime := time.Now().Add(time.Duration(expirationHours) * time.Hour)
	claims := &Claims{
		Wallet: wallet,
		Tiers:  tiers,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    jm.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jm.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}

func (jm *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	if !jm.Configured() {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jm.secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %v", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// IsOwner reports whether wallet is on the owner allow-list.
func (jm *JWTManager) IsOwner(wallet string) bool {
	return wallet != "" && jm.ownerWallets[strings.ToLower(wallet)]
}

// IsPrivileged applies the entitlement rule to validated claims: owners
// always, otherwise any tier other than "free".
func (jm *JWTManager) IsPrivileged(claims *Claims) bool {
	if claims == nil {
		return false
	}
	if jm.IsOwner(claims.Wallet) {
		return true
	}
	for _, t := range claims.Tiers {
		if t != "" && t != "free" {
			return true
		}
	}
	return false
}
