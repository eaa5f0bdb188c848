package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
)

func (s *server) registerStudentAPI(g *echo.Group) {
	sg := g.Group("/students")
	sg.POST("/register", s.studentRegister)
	sg.POST("/login", s.studentLogin)

	me := sg.Group("/me", s.jwt)
	me.GET("", s.studentProfile)
	me.GET("/results", s.studentResults)
	me.GET("/reregistrations", s.studentReregistrations)
	me.GET("/payments", s.studentPaymentHistory)
	me.POST("/payments", s.studentPaymentBegin)

	g.GET("/subjects", s.subjectList, s.jwt)
	g.POST("/payments/verify", s.paymentVerify, s.jwt)
}

func (s *server) studentRegister(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := data.Validate(s.deps.StudentSvc); err != nil {
		return err
	}
	std, err := s.deps.StudentSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (s *server) studentLogin(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(&data); err != nil {
		return err
	}
	std, err := s.authenticate(ctx.Request().Context(), core.CleanString(data.Username, true /* lower */), data.Password)
	if err != nil {
		return err
	}
	token, err := s.generateStudentToken(std)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (s *server) studentProfile(ctx echo.Context) error {
	std, err := s.contextStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

// semesterParam reads ?semester=, falling back to the student's current one.
func semesterParam(ctx echo.Context, std student.Student) (int, error) {
	raw := ctx.QueryParam("semester")
	if raw == "" {
		return std.CurrentSemester, nil
	}
	sem, err := strconv.Atoi(raw)
	if err != nil || sem < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid semester")
	}
	return sem, nil
}

func (s *server) studentResults(ctx echo.Context) error {
	std, err := s.contextStudent(ctx)
	if err != nil {
		return err
	}
	if !std.HasUSN() {
		return errUSNNotAssigned
	}
	sem, err := semesterParam(ctx, std)
	if err != nil {
		return err
	}
	res, err := s.deps.RegistrationSvc.SemesterResult(ctx.Request().Context(), std.ID, sem)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ResultsResponse{
		Student: std,
		Result:  res,
		Legend:  registration.GradeLegend,
	})
}

// studentReregistrations lists the records whose announced grade opens a paid
// action, plus the faculty options needed for the re-registration form.
func (s *server) studentReregistrations(ctx echo.Context) error {
	std, err := s.contextStudent(ctx)
	if err != nil {
		return err
	}
	if !std.HasUSN() {
		return errUSNNotAssigned
	}
	sem, err := semesterParam(ctx, std)
	if err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	recs, err := s.deps.RegistrationSvc.ListForStudent(rctx, std.ID, sem)
	if err != nil {
		return err
	}

	resp := ReregistrationsResponse{Semester: sem, Subjects: []EligibleSubject{}}
	resolver := s.deps.CatalogSvc.Resolver()
	needFaculties := false
	for _, rec := range recs {
		actions := registration.Evaluate(rec)
		if len(actions) == 0 {
			continue
		}
		subj, err := resolver.Get(rctx, rec.SubjectID)
		if err != nil {
			return err
		}
		if registration.Contains(actions, registration.ActionReregisterWithdrawn) {
			needFaculties = true
		}
		resp.Subjects = append(resp.Subjects, EligibleSubject{Subject: subj, Record: rec, Actions: actions})
	}

	if needFaculties {
		if resp.Faculties, err = s.deps.FacultySvc.FilterByDepartment(rctx, std.Department); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (s *server) studentPaymentHistory(ctx echo.Context) error {
	std, err := s.contextStudent(ctx)
	if err != nil {
		return err
	}
	receipts, err := s.deps.PaymentSvc.History(ctx.Request().Context(), std.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, receipts)
}

func (s *server) studentPaymentBegin(ctx echo.Context) error {
	std, err := s.contextStudent(ctx)
	if err != nil {
		return err
	}
	if !std.HasUSN() {
		return errUSNNotAssigned
	}
	var data PaymentIntentRequest
	if err = ctx.Bind(&data); err != nil {
		return err
	}
	if err = s.deps.Validate.Struct(&data); err != nil {
		return err
	}
	if data.Semester == 0 {
		data.Semester = std.CurrentSemester
	}

	wf, err := s.deps.PaymentSvc.Begin(ctx.Request().Context(), payment.Intent{
		Action:    data.Action,
		StudentID: std.ID,
		SubjectID: data.SubjectID,
		Semester:  data.Semester,
		FacultyID: data.FacultyID,
	})
	if err != nil {
		return err
	}
	ord := wf.Order()
	return ctx.JSON(http.StatusCreated, PaymentOrderResponse{
		OrderID:     ord.ID,
		Amount:      ord.Amount,
		Currency:    ord.Currency,
		State:       wf.State().String(),
		RazorpayKey: s.deps.Conf.Razorpay.APIKey,
	})
}

// paymentVerify settles the checkout the provider just signed off in the
// student's browser.
func (s *server) paymentVerify(ctx echo.Context) error {
	var data payment.Verification
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(&data); err != nil {
		return err
	}
	wf, err := s.deps.PaymentSvc.HandleCallback(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	state := wf.State()
	return ctx.JSON(http.StatusOK, VerifyResponse{Success: state == payment.StateCommitted, State: state.String()})
}

func (s *server) subjectList(ctx echo.Context) error {
	filter := catalog.QueryFilter{Department: strings.TrimSpace(ctx.QueryParam("department"))}
	if raw := ctx.QueryParam("semester"); raw != "" {
		sem, err := strconv.Atoi(raw)
		if err != nil || sem < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid semester")
		}
		filter.Semester = sem
	}
	subjects, err := s.deps.CatalogSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subjects)
}
