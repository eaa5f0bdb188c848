package echoapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

const claimsContextKey = "appToken"

var (
	errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errUSNNotAssigned     = echo.NewHTTPError(http.StatusForbidden, "USN not assigned yet; contact the examination section")
	errAdminOnly          = echo.NewHTTPError(http.StatusForbidden, "admin access required")
)

type Claims struct {
	jwt.StandardClaims
	USN        string `json:"usn,omitempty"`
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
	Semester   int    `json:"semester,omitempty"`
	IsAdmin    bool   `json:"is_admin,omitempty"`
}

func appJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		Claims:     &Claims{},
		ContextKey: claimsContextKey,
		SigningKey: []byte(conf.SecretKey),
	}
}

func (s *server) generateToken(claims *Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(s.deps.Conf.Server.JWTExpirationDelta).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.deps.Conf.SecretKey))
}

func (s *server) generateStudentToken(std student.Student) (string, error) {
	return s.generateToken(&Claims{
		StandardClaims: jwt.StandardClaims{Subject: std.ID},
		USN:            std.USN,
		Name:           std.Name,
		Department:     std.Department,
		Semester:       std.CurrentSemester,
	})
}

// authenticate matches username against the USN first, then the email.
func (s *server) authenticate(ctx context.Context, username, password string) (student.Student, error) {
	std, err := s.deps.StudentSvc.GetByUSN(ctx, username)
	if err == student.ErrNotFound {
		std, err = s.deps.StudentSvc.GetByEmail(ctx, username)
	}
	if err != nil {
		if err == student.ErrNotFound {
			return student.Student{}, errInvalidCredentials
		}
		return student.Student{}, err
	}
	if err = std.CheckPassword(password); err != nil {
		return student.Student{}, errInvalidCredentials
	}
	return std, nil
}

// authenticateAdmin checks the configured admin credentials. Admin accounts
// live outside the student table; the admin frontend shares the signing key.
func (s *server) authenticateAdmin(username, password string) error {
	conf := s.deps.Conf
	if conf.AdminEmail == "" || conf.AdminPassword == "" {
		return errInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(conf.AdminEmail)) == 1
	pwdOK := subtle.ConstantTimeCompare([]byte(password), []byte(conf.AdminPassword)) == 1
	if !(userOK && pwdOK) {
		return errInvalidCredentials
	}
	return nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, echo.ErrUnauthorized
}

// contextStudent loads a fresh Student for the authenticated request; claims
// can be a week stale (semester, USN).
func (s *server) contextStudent(ctx echo.Context) (student.Student, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return student.Student{}, err
	}
	if claims.IsAdmin {
		return student.Student{}, echo.ErrUnauthorized
	}
	return s.deps.StudentSvc.GetByID(ctx.Request().Context(), claims.Subject)
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsAdmin {
				return errAdminOnly
			}
			return next(ctx)
		}
	}
}
