package serverutils

import (
	"errors"
	"time"

	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookieName = "roast_session"
	sessionLocalsKey  = "session"
)

// SessionMiddleware resolves the visitor's session from a signed cookie,
// creating a fresh one when the cookie is missing, invalid or expired.
// Every request saves the session and reissues the cookie, so ttl counts
// from the last activity.
func SessionMiddleware(repo contract.SessionRepository, secret []byte, ttl time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var session *entity.Session
		if sid, err := ParseSessionToken(ctx.Cookies(SessionCookieName), secret); err == nil {
			session, _ = repo.Get(sid)
		}
		if session == nil {
			session = entity.NewSession()
		}
		repo.Save(session)

		token, err := SignSessionToken(session.Id.String(), secret, ttl)
		if err != nil {
			return err
		}
		ctx.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		ctx.Locals(sessionLocalsKey, session)
		return ctx.Next()
	}
}

// CurrentSession returns the session attached by SessionMiddleware.
func CurrentSession(ctx *fiber.Ctx) (*entity.Session, error) {
	session, ok := ctx.Locals(sessionLocalsKey).(*entity.Session)
	if !ok || session == nil {
		return nil, errors.New("session middleware not mounted")
	}
	return session, nil
}

func SignSessionToken(sessionId string, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionId,
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseSessionToken(tokenStr string, secret []byte) (string, error) {
	if tokenStr == "" {
		return "", errors.New("missing session token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid session claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("session token has no sid")
	}
	return sid, nil
}
