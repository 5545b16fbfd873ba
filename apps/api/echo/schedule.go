package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/absence"
	"github.com/trezcool/kelasi/core/schedule"
	"github.com/trezcool/kelasi/core/user"
)

type scheduleApi struct {
	svc        schedule.ServiceInterface
	absenceSvc absence.ServiceInterface
	usrSvc     user.ServiceInterface
	validate   *validator.Validate
}

func registerScheduleAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc schedule.ServiceInterface,
	absenceSvc absence.ServiceInterface,
	usrSvc user.ServiceInterface,
	validate *validator.Validate,
) {
	api := scheduleApi{
		svc:        svc,
		absenceSvc: absenceSvc,
		usrSvc:     usrSvc,
		validate:   validate,
	}

	g.GET("/schedule", api.ownSchedule, jwt, studentMiddleware())

	cg := g.Group("/classes", jwt, supervisorMiddleware())
	cg.GET("", api.queryClasses)
	cg.GET("/:id/roster", api.roster)
	cg.GET("/:id/schedule", api.classSchedule)
	cg.GET("/:id/schedule/slot", api.slot)
}

// Handlers

// ownSchedule returns the weekly timetable of the calling student's class.
func (api *scheduleApi) ownSchedule(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cls, err := api.svc.ClassByName(usr.Class)
	if err != nil {
		if errors.Cause(err) == schedule.ErrClassNotFound {
			return ctx.JSON(http.StatusOK, schedule.Weekly{})
		}
		return errors.Wrap(err, "finding class by name")
	}

	weekly, err := api.svc.WeeklyByClass(cls.ID)
	if err != nil {
		return errors.Wrap(err, "building weekly schedule")
	}
	return ctx.JSON(http.StatusOK, weekly)
}

func (api *scheduleApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.Classes()
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []schedule.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *scheduleApi) roster(ctx echo.Context) error {
	roster, err := api.absenceSvc.ClassRoster(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building class roster")
	}
	if roster == nil {
		roster = []absence.RosterEntry{}
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *scheduleApi) classSchedule(ctx echo.Context) error {
	if _, err := api.svc.ClassByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == schedule.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}

	weekly, err := api.svc.WeeklyByClass(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building weekly schedule")
	}
	return ctx.JSON(http.StatusOK, weekly)
}

// slot resolves which course session (if any) a class has at a given day/time.
func (api *scheduleApi) slot(ctx echo.Context) error {
	var query SlotQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to SlotQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.ClassByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == schedule.ErrClassNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding class by ID")
	}

	weekly, err := api.svc.WeeklyByClass(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building weekly schedule")
	}

	entry, ok := schedule.EntryAt(weekly, query.Day, query.Time)
	return ctx.JSON(http.StatusOK, SlotResponse{Entry: entry, Found: ok})
}

type (
	SlotQuery struct {
		Day  string `query:"day" validate:"required,day"`
		Time string `query:"time" validate:"required,hhmm"`
	}

	SlotResponse struct {
		Entry schedule.Entry `json:"entry"`
		Found bool           `json:"found"`
	}
)

func (sq *SlotQuery) Validate(validate *validator.Validate) error {
	sq.Day = core.CleanString(sq.Day)
	sq.Time = core.CleanString(sq.Time)
	return validate.Struct(sq)
}
