package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/registration"
)

func (s *server) registerAdminAPI(g *echo.Group) {
	ag := g.Group("/admin")
	ag.POST("/login", s.adminLogin)

	auth := ag.Group("", s.jwt, adminMiddleware())
	auth.PATCH("/grades", s.adminSetGrade)
	auth.PATCH("/announce-results", s.adminAnnounceResults)
	auth.PATCH("/students/:id/assign-usn", s.adminAssignUSN)
	auth.PATCH("/students/:id/increase-semester", s.adminIncreaseSemester)
	auth.GET("/payments", s.adminPaymentList)
}

func (s *server) adminLogin(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(&data); err != nil {
		return err
	}
	if err := s.authenticateAdmin(core.CleanString(data.Username, true /* lower */), data.Password); err != nil {
		return err
	}
	token, err := s.generateToken(&Claims{
		StandardClaims: jwt.StandardClaims{Subject: "admin"},
		Name:           "Administrator",
		IsAdmin:        true,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (s *server) adminSetGrade(ctx echo.Context) error {
	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(&data); err != nil {
		return err
	}
	grade := registration.Grade(strings.ToUpper(strings.TrimSpace(data.Grade)))
	rec, err := s.deps.RegistrationSvc.SetGrade(ctx.Request().Context(), data.StudentID, data.SubjectID, data.Semester, grade)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (s *server) adminAnnounceResults(ctx echo.Context) error {
	var data AnnounceRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(&data); err != nil {
		return err
	}
	at := data.At
	if at.IsZero() {
		at = time.Now()
	}
	if err := s.deps.RegistrationSvc.AnnounceResults(ctx.Request().Context(), data.StudentID, data.Semester, at); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) adminAssignUSN(ctx echo.Context) error {
	var data AssignUSNRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(&data); err != nil {
		return err
	}
	std, err := s.deps.StudentSvc.AssignUSN(ctx.Request().Context(), ctx.Param("id"), data.USN)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (s *server) adminIncreaseSemester(ctx echo.Context) error {
	std, err := s.deps.StudentSvc.IncreaseSemester(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (s *server) adminPaymentList(ctx echo.Context) error {
	receipts, err := s.deps.PaymentSvc.All(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, receipts)
}
