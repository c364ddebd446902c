package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core"
	"github.com/cecscoop/portal/core/coop"
	"github.com/cecscoop/portal/core/employer"
	"github.com/cecscoop/portal/core/position"
)

type employerApi struct {
	svc         employer.ServiceInterface
	positionSvc position.ServiceInterface
	coopSvc     *coop.Service
	conf        *core.Config
	validate    *validator.Validate
}

// SelectionResponse carries the application and the eligibility verdict
// computed at selection time.
type SelectionResponse struct {
	Application coop.Application     `json:"application"`
	Eligibility coop.CoopEligibility `json:"eligibility"`
}

func registerEmployerAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := employerApi{
		svc:         deps.EmployerSvc,
		positionSvc: deps.PositionSvc,
		coopSvc:     deps.CoopSvc,
		conf:        deps.Conf,
		validate:    deps.Validate,
	}

	eg := g.Group("/employers")

	// un-authed endpoints
	eg.POST("/register", api.register)
	eg.POST("/login", api.login)

	// authed endpoints
	ag := eg.Group("", jwt, roleMiddleware(core.RoleEmployer))
	ag.POST("/token-refresh", refreshTokenHandler(api.conf))
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/positions", api.queryPositions)
	ag.POST("/positions", api.postPosition)
	ag.GET("/positions/:id/applicants", api.applicants)
	ag.POST("/applications/:id/select", api.selectApplicant)
	ag.POST("/applications/:id/reject", api.rejectApplicant)
	ag.GET("/reviews", api.pendingReviews)
	ag.POST("/records/:id/review", api.reviewSummary)
}

// Handlers

func (api *employerApi) register(ctx echo.Context) error {
	var data employer.NewEmployer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEmployer")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	emp, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering employer")
	}
	return ctx.JSON(http.StatusCreated, emp)
}

func (api *employerApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	emp, err := api.svc.GetByEmail(ctx.Request().Context(), data.Email)
	if err != nil {
		if errors.Cause(err) == employer.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding employer by email")
	}
	if err = emp.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}

	token, err := GenerateToken(api.conf, GetClaims(api.conf, emp.ID, emp.ContactName, emp.Email, core.RoleEmployer))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *employerApi) dashboard(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	dash, err := api.coopSvc.EmployerDashboard(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "building employer dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *employerApi) queryPositions(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	positions, err := api.positionSvc.QueryByEmployer(ctx.Request().Context(), actor.ID)
	if err != nil {
		return errors.Wrap(err, "querying positions")
	}
	return ctx.JSON(http.StatusOK, positions)
}

func (api *employerApi) postPosition(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	var data position.NewPosition
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPosition")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	pos, err := api.positionSvc.Post(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "posting position")
	}
	return ctx.JSON(http.StatusCreated, pos)
}

func (api *employerApi) applicants(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	apps, err := api.coopSvc.Applicants(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *employerApi) selectApplicant(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	appID, err := pathID(ctx)
	if err != nil {
		return err
	}

	app, elig, err := api.coopSvc.Select(ctx.Request().Context(), actor, appID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SelectionResponse{Application: app, Eligibility: elig})
}

func (api *employerApi) rejectApplicant(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	appID, err := pathID(ctx)
	if err != nil {
		return err
	}

	app, err := api.coopSvc.Reject(ctx.Request().Context(), actor, appID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *employerApi) pendingReviews(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}

	recs, err := api.coopSvc.PendingReviews(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying pending reviews")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *employerApi) reviewSummary(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	recID, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data ReviewRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviewRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.coopSvc.ReviewSummary(ctx.Request().Context(), actor, recID, data.Approval)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}
