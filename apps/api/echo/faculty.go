package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/faculty"
	"github.com/cecscoop/portal/core/student"
)

type facultyApi struct {
	svc        faculty.ServiceInterface
	studentSvc student.ServiceInterface
	coopSvc    *coop.Service
	conf       *core.Config
	validate   *validator.Validate
}

func registerFacultyAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := facultyApi{
		svc:        deps.FacultySvc,
		studentSvc: deps.StudentSvc,
		coopSvc:    deps.CoopSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
	}

	fg := g.Group("/faculty")

	// un-authed endpoints
	fg.POST("/register", api.register)
	fg.POST("/login", api.login)

	// authed endpoints
	ag := fg.Group("", jwt, roleMiddleware(core.RoleFaculty))
	ag.POST("/token-refresh", refreshTokenHandler(api.conf))
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/students", api.students)
	ag.GET("/records/:id", api.record)
	ag.POST("/records/:id/grade", api.grade)
}

// Handlers

func (api *facultyApi) register(ctx echo.Context) error {
	var data faculty.NewFaculty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFaculty")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	fac, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering faculty")
	}
	return ctx.JSON(http.StatusCreated, fac)
}

func (api *facultyApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fac, err := api.svc.GetByEmail(ctx.Request().Context(), data.Email)
	if err != nil {
		if errors.Cause(err) == faculty.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding faculty by email")
	}
	if err = fac.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}

	token, err := GenerateToken(api.conf, GetClaims(api.conf, fac.ID, fac.Name, fac.Email, core.RoleFaculty))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *facultyApi) dashboard(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	dash, err := api.coopSvc.FacultyDashboard(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "building faculty dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

// students lists the students of the coordinator's own department.
func (api *facultyApi) students(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	fac, err := api.svc.GetByID(ctx.Request().Context(), actor.ID)
	if err != nil {
		return errors.Wrap(err, "finding faculty by ID")
	}

	students, err := api.studentSvc.QueryByDepartment(ctx.Request().Context(), fac.Department)
	if err != nil {
		return errors.Wrap(err, "querying department students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *facultyApi) record(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	recID, err := pathID(ctx)
	if err != nil {
		return err
	}

	rec, err := api.coopSvc.Record(ctx.Request().Context(), actor, recID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *facultyApi) grade(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	recID, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data GradeRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.coopSvc.Grade(ctx.Request().Context(), actor, recID, data.Grade)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}
