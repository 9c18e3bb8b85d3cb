package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const urlIssuer = "billboard-report/images"

var ErrInvalidSignature = errors.New("invalid or expired image token")

// URLSigner issues time-limited download URLs for stored objects.
type URLSigner struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewURLSigner(secret, baseURL string, ttl time.Duration) *URLSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &URLSigner{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *URLSigner) Token(key string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   key,
		Issuer:    urlIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// URL returns an absolute download URL, or "" for an empty key.
func (s *URLSigner) URL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	token, err := s.Token(key)
	if err != nil {
		return "", fmt.Errorf("sign image url: %w", err)
	}
	return fmt.Sprintf("%s/api/images/%s?token=%s", s.baseURL, key, url.QueryEscape(token)), nil
}

// Verify checks that token was issued by this signer for key and is unexpired.
func (s *URLSigner) Verify(key, token string) error {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(urlIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidSignature
	}
	if claims.Subject != key {
		return ErrInvalidSignature
	}
	return nil
}
