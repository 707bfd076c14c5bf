package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"soothe/config"
	"soothe/models"

	"github.com/golang-jwt/jwt/v4"
)

var (
	googlePublicKeys  map[string]*rsa.PublicKey
	googleKeysMutex   sync.RWMutex
	googleKeysExpires time.Time
)

// googleJWK represents a single JSON Web Key from Google's keys endpoint.
type googleJWK struct {
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// getGooglePublicKeys fetches and caches Google's public keys.
func getGooglePublicKeys() (map[string]*rsa.PublicKey, error) {
	googleKeysMutex.RLock()
	if time.Now().Before(googleKeysExpires) && googlePublicKeys != nil {
		defer googleKeysMutex.RUnlock()
		return googlePublicKeys, nil
	}
	googleKeysMutex.RUnlock()

	resp, err := http.Get("https://www.googleapis.com/oauth2/v3/certs")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google certs: %w", err)
	}
	defer resp.Body.Close()

	var keyResp struct {
		Keys []googleJWK `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&keyResp); err != nil {
		return nil, fmt.Errorf("failed to decode Google keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for _, key := range keyResp.Keys {
		pubKey, err := convertJWKToPublicKey(key.N, key.E)
		if err != nil {
			return nil, fmt.Errorf("failed to convert JWK to public key: %w", err)
		}
		keys[key.Kid] = pubKey
	}

	googleKeysMutex.Lock()
	googlePublicKeys = keys
	// Google rotates keys frequently; cache for 1 hour.
	googleKeysExpires = time.Now().Add(1 * time.Hour)
	googleKeysMutex.Unlock()

	return keys, nil
}

// convertJWKToPublicKey converts base64url encoded modulus and exponent to rsa.PublicKey.
func convertJWKToPublicKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var exp int
	for _, b := range eb {
		exp = exp<<8 + int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: exp,
	}, nil
}

// validateGoogleToken verifies the Google ID token signature and claims and
// returns the Google subject, email, and display name.
func validateGoogleToken(tokenStr string) (subject, email, name string, err error) {
	keys, err := getGooglePublicKeys()
	if err != nil {
		return "", "", "", fmt.Errorf("failed to get Google public keys: %w", err)
	}

	// Parse without verification first to read the kid header.
	parser := new(jwt.Parser)
	unverifiedToken, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return "", "", "", fmt.Errorf("failed to parse token: %w", err)
	}

	kid, ok := unverifiedToken.Header["kid"].(string)
	if !ok {
		return "", "", "", errors.New("token missing kid header")
	}

	pubKey, exists := keys[kid]
	if !exists {
		return "", "", "", errors.New("no matching Google public key found")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return pubKey, nil
	})
	if err != nil {
		return "", "", "", fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid {
		return "", "", "", errors.New("invalid Google ID token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", errors.New("failed to parse claims")
	}

	if aud, ok := claims["aud"].(string); !ok || aud != config.AppConfig.GoogleClientID {
		return "", "", "", errors.New("invalid audience in Google ID token")
	}
	if iss, ok := claims["iss"].(string); !ok || (iss != "accounts.google.com" && iss != "https://accounts.google.com") {
		return "", "", "", errors.New("invalid issuer in Google ID token")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return "", "", "", errors.New("google ID token expired")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", "", errors.New("sub claim not found in Google ID token")
	}
	mail, ok := claims["email"].(string)
	if !ok {
		return "", "", "", errors.New("email claim not found in Google ID token")
	}
	displayName, _ := claims["name"].(string)

	return sub, strings.ToLower(mail), displayName, nil
}

// SignInWithGoogle validates a Google ID token and signs the linked account
// in, creating it on first use.
func (s *AuthService) SignInWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	subject, email, name, err := validateGoogleToken(idToken)
	if err != nil {
		return nil, err
	}
	return s.signInWithProvider(ctx, models.OAuthProviderGoogle, subject, email, name)
}
