package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/domain"
)

const (
	msgInvalidToken = "invalid or expired access token"
	msgRoleLookup   = "failed to resolve user role"
)

type contextKey string

const identityKey contextKey = "identity"

// RoleResolver определяет роль пользователя по профилю
type RoleResolver interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AuthConfig параметры проверки access-токена
type AuthConfig struct {
	Secret   string
	Issuer   string // пусто - не проверяется
	Audience string // пусто - не проверяется
}

// Authenticator проверяет Bearer токен провайдера идентификации (HS256, sub = id пользователя)
// и кладет domain.Identity в контекст запроса. Запрос без токена проходит как анонимный.
type Authenticator struct {
	cfg    AuthConfig
	roles  RoleResolver
	parser *jwt.Parser
	logger Logger
}

// NewAuthenticator создает middleware аутентификации
func NewAuthenticator(cfg AuthConfig, roles RoleResolver, logger Logger) *Authenticator {
	return &Authenticator{
		cfg:    cfg,
		roles:  roles,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		logger: logger,
	}
}

// Middleware возвращает http middleware для gorilla/mux
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), domain.Anonymous())))
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			a.logger.Warn("%s %s - Malformed Authorization header", r.Method, r.URL.Path)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		userID, err := a.parse(token)
		if err != nil {
			a.logger.Warn("%s %s - Invalid access token: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		role, err := a.roles.RoleOf(r.Context(), userID)
		if err != nil {
			a.logger.Error("%s %s - Failed to resolve role for user=%s: %v", r.Method, r.URL.Path, userID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgRoleLookup)
			return
		}

		identity := domain.Identity{UserID: userID, Role: role}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func (a *Authenticator) parse(raw string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := a.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.cfg.Secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	if a.cfg.Issuer != "" && !claims.VerifyIssuer(a.cfg.Issuer, true) {
		return uuid.Nil, jwt.ErrTokenInvalidIssuer
	}
	if a.cfg.Audience != "" && !claims.VerifyAudience(a.cfg.Audience, true) {
		return uuid.Nil, jwt.ErrTokenInvalidAudience
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// WithIdentity кладет identity в контекст
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity извлекает identity из контекста. Без middleware возвращает анонимную.
func GetIdentity(ctx context.Context) domain.Identity {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	if !ok {
		return domain.Anonymous()
	}
	return identity
}
