package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// CookieSigner tamper-proofs session ids carried in cookies.
type CookieSigner struct {
	secret []byte
}

func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Sign returns value suffixed with its HMAC-SHA256.
func (c *CookieSigner) Sign(value string) string {
	return value + "." + c.mac(value)
}

// Unsign returns the original value if the signature matches.
func (c *CookieSigner) Unsign(signed string) (string, bool) {
	idx := strings.LastIndexByte(signed, '.')
	if idx <= 0 {
		return "", false
	}
	value, sig := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(c.mac(value))) {
		return "", false
	}
	return value, true
}

func (c *CookieSigner) mac(value string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
