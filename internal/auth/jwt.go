package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrOpaque is returned for tokens that are not JWTs.
var ErrOpaque = errors.New("opaque token")

// Payload decodes a JWT's claims without verifying the signature.
func Payload(token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrOpaque
	}
	raw, err := decodeSegment(parts[1])
	if err != nil {
		return nil, ErrOpaque
	}
	var claims map[string]any
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, ErrOpaque
	}
	return claims, nil
}

func decodeSegment(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "=")); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}

func jwtExpiry(token string) *time.Time {
	claims, err := Payload(token)
	if err != nil {
		return nil
	}
	exp, ok := claims["exp"].(float64)
	if !ok || exp <= 0 {
		return nil
	}
	t := time.Unix(int64(exp), 0).UTC()
	return &t
}
