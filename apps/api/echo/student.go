package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

type studentApi struct {
	svc         student.ServiceInterface
	positionSvc position.ServiceInterface
	coopSvc     *coop.Service
	conf        *core.Config
	validate    *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:         deps.StudentSvc,
		positionSvc: deps.PositionSvc,
		coopSvc:     deps.CoopSvc,
		conf:        deps.Conf,
		validate:    deps.Validate,
	}

	sg := g.Group("/students")

	// un-authed endpoints
	sg.POST("/register", api.register)
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", jwt, roleMiddleware(core.RoleStudent))
	ag.POST("/token-refresh", refreshTokenHandler(api.conf))
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/positions", api.searchPositions)
	ag.GET("/positions/:id", api.positionDetail)
	ag.GET("/applications", api.queryApplications)
	ag.POST("/applications", api.apply)
	ag.POST("/applications/:id/withdraw", api.withdraw)
	ag.POST("/applications/:id/interest", api.expressInterest)
	ag.PUT("/applications/:id/summary", api.saveSummary)
}

// Handlers

func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.GetByEmail(ctx.Request().Context(), data.Email)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding student by email")
	}
	if err = std.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}

	token, err := GenerateToken(api.conf, GetClaims(api.conf, std.ID, std.Name, std.Email, core.RoleStudent))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *studentApi) dashboard(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	dash, err := api.coopSvc.Dashboard(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "building student dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *studentApi) searchPositions(ctx echo.Context) error {
	filter := new(position.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []position.JobPosition{})
	}

	positions, err := api.positionSvc.Search(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "searching positions")
	}
	return ctx.JSON(http.StatusOK, positions)
}

func (api *studentApi) positionDetail(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	detail, err := api.coopSvc.Position(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *studentApi) queryApplications(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	apps, err := api.coopSvc.StudentApplications(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *studentApi) apply(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	var data ApplicationRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ApplicationRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	app, err := api.coopSvc.Apply(ctx.Request().Context(), actor, data.PositionID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *studentApi) withdraw(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	appID, err := pathID(ctx)
	if err != nil {
		return err
	}

	app, err := api.coopSvc.Withdraw(ctx.Request().Context(), actor, appID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *studentApi) expressInterest(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	appID, err := pathID(ctx)
	if err != nil {
		return err
	}

	rec, err := api.coopSvc.ExpressInterest(ctx.Request().Context(), actor, appID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *studentApi) saveSummary(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	appID, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data SummaryRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SummaryRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.coopSvc.SaveSummary(ctx.Request().Context(), actor, appID, data.Summary, data.Submit)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

// pathID parses the numeric :id path param; unparsable IDs read as not found.
func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}
