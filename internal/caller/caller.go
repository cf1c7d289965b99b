// Package caller переносит идентичность вызывающей стороны через context.Context
// и извлекает её из bearer-токенов.
package caller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type ctxKey struct{}

// Normalize приводит идентичность к ключу, под которым хранится учётная запись.
func Normalize(identity string) string {
	return strings.TrimSpace(identity)
}

// WithIdentity возвращает контекст с нормализованной идентичностью вызывающей стороны.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Normalize(identity))
}

// FromContext возвращает идентичность вызывающей стороны, если она есть.
func FromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(ctxKey{}).(string)
	identity = Normalize(identity)
	return identity, ok && identity != ""
}

// Require возвращает идентичность или domain.ErrUnauthenticated.
func Require(ctx context.Context) (string, error) {
	identity, ok := FromContext(ctx)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return identity, nil
}

// Config задаёт параметры проверки токенов.
type Config struct {
	// Secret — HMAC-ключ. Пустой ключ отключает проверку токенов:
	// идентичность берётся из заголовка x-caller-id (только для разработки).
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Verifier извлекает идентичность из заголовка Authorization.
type Verifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewVerifier создаёт Verifier.
func NewVerifier(cfg Config) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Verifier{secret: []byte(cfg.Secret), opts: opts}
}

// Enabled сообщает, проверяются ли токены.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// Identify возвращает идентичность из authorization ("Bearer <jwt>", claim sub)
// или, если проверка токенов отключена, из devIdentity.
func (v *Verifier) Identify(authorization, devIdentity string) (string, error) {
	if !v.Enabled() {
		identity := Normalize(devIdentity)
		if identity == "" {
			return "", domain.ErrUnauthenticated
		}
		return identity, nil
	}

	raw, ok := strings.CutPrefix(strings.TrimSpace(authorization), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("missing bearer token: %w", domain.ErrUnauthenticated)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}
	identity := Normalize(claims.Subject)
	if identity == "" {
		return "", fmt.Errorf("token without subject: %w", domain.ErrUnauthenticated)
	}
	return identity, nil
}

// IssueToken подписывает HS256-токен с claim sub=identity для клиентов и
// нагрузочных тестов. Issuer и Audience берутся из cfg.
func IssueToken(cfg Config, identity string, ttl time.Duration, now time.Time) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("caller: secret is required to issue tokens")
	}
	if Normalize(identity) == "" {
		return "", domain.ErrUnauthenticated
	}
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}
