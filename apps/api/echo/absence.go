package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kelasi/core/absence"
	"github.com/trezcool/kelasi/core/user"
)

type absenceApi struct {
	svc      absence.ServiceInterface
	usrSvc   user.ServiceInterface
	validate *validator.Validate
}

func registerAbsenceAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc absence.ServiceInterface,
	usrSvc user.ServiceInterface,
	validate *validator.Validate,
) {
	api := absenceApi{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	ag := g.Group("/absences", jwt)
	ag.GET("", api.queryOwn, studentMiddleware())
	ag.GET("/all", api.queryAll, supervisorMiddleware())

	jg := g.Group("/justifications", jwt)
	jg.GET("", api.queryOwnJustifications, studentMiddleware())
	jg.POST("", api.submitJustification, studentMiddleware())
	jg.GET("/pending", api.queryPending, supervisorMiddleware())
	jg.PUT("/:id/resolve", api.resolve, supervisorMiddleware())

	sg := g.Group("/stats", jwt)
	sg.GET("", api.stats, supervisorMiddleware())
	sg.GET("/classes", api.statsByClass, supervisorMiddleware())
	sg.GET("/monthly", api.statsByMonth)
}

// Handlers

func (api *absenceApi) queryOwn(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	views, err := api.svc.QueryByStudent(usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying student absences")
	}
	if views == nil {
		views = []absence.AbsenceView{}
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *absenceApi) queryAll(ctx echo.Context) error {
	views, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying absences")
	}
	if views == nil {
		views = []absence.AbsenceView{}
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *absenceApi) queryOwnJustifications(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	justifs, err := api.svc.JustificationsByStudent(usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying student justifications")
	}
	if justifs == nil {
		justifs = []absence.Justification{}
	}
	return ctx.JSON(http.StatusOK, justifs)
}

func (api *absenceApi) submitJustification(ctx echo.Context) error {
	var data absence.NewJustification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewJustification")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	justif, err := api.svc.Submit(usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "submitting justification")
	}
	return ctx.JSON(http.StatusCreated, justif)
}

func (api *absenceApi) queryPending(ctx echo.Context) error {
	justifs, err := api.svc.PendingJustifications()
	if err != nil {
		return errors.Wrap(err, "querying pending justifications")
	}
	if justifs == nil {
		justifs = []absence.Justification{}
	}
	return ctx.JSON(http.StatusOK, justifs)
}

func (api *absenceApi) resolve(ctx echo.Context) error {
	var data absence.Resolution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Resolution")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	justif, abs, err := api.svc.Resolve(ctx.Request().Context(), ctx.Param("id"), data, usr.ID)
	if err != nil {
		switch errors.Cause(err) {
		case absence.ErrNotFound:
			return errHttpNotFound
		case absence.ErrAlreadyResolved:
			return errHttpConflict
		}
		return errors.Wrap(err, "resolving justification")
	}
	return ctx.JSON(http.StatusOK, ResolveResponse{Justification: justif, Absence: abs})
}

func (api *absenceApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *absenceApi) statsByClass(ctx echo.Context) error {
	stats, err := api.svc.StatsByClass()
	if err != nil {
		return errors.Wrap(err, "computing class stats")
	}
	if stats == nil {
		stats = []absence.ClassStats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}

// statsByMonth scopes to the caller for students; supervisors may narrow
// to one student via ?student_id= or get the whole-school breakdown.
func (api *absenceApi) statsByMonth(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	studentID := claims.Subject
	if claims.IsSupervisor {
		studentID = ctx.QueryParam("student_id")
	}

	stats, err := api.svc.StatsByMonth(studentID)
	if err != nil {
		return errors.Wrap(err, "computing monthly stats")
	}
	if stats == nil {
		stats = []absence.MonthStats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}

type ResolveResponse struct {
	Justification absence.Justification `json:"justification"`
	Absence       absence.Absence       `json:"absence"`
}
