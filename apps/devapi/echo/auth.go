package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login is a dev fixture, not an identity system: any non-empty credentials
// are accepted and the username decides the role.
func login(ctx echo.Context) error {
	data := new(loginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	data.Username = core.CleanString(data.Username, true /* lower */)
	if data.Username == "" || data.Password == "" {
		return core.NewValidationError(nil,
			core.FieldError{Field: "username", Error: "username and password are required"})
	}

	role := "teacher"
	if strings.HasPrefix(data.Username, "admin") {
		role = "admin"
	}

	token, err := generateToken(data.Username, role)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"token": token})
}

// generateToken generates a signed JWT token string representing the user Claims.
func generateToken(username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    core.Conf.AppName,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(core.Conf.Server.JWTExpirationDelta)),
		},
		Username: username,
		Role:     role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(core.Conf.Server.SecretKey))
}

// authMiddleware rejects requests without a valid bearer token.
func authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return errUnauthorized
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := new(Claims)
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errUnauthorized
				}
				return []byte(core.Conf.Server.SecretKey), nil
			})
			if err != nil || !token.Valid {
				return errUnauthorized
			}

			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

const contextClaimsKey = "claims"
