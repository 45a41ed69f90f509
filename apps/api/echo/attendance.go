package echoapi

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/attendoapp/attendo/core"
	"github.com/attendoapp/attendo/core/attendance"
)

type attendanceApi struct {
	svc      attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc attendance.Service, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.listSubjects)
	sg.POST("", api.addSubject)
	sg.DELETE("/:name", api.removeSubject)

	cg := g.Group("/schedule", jwt)
	cg.GET("", api.getSchedule)
	cg.PUT("/settings", api.updateSettings)
	cg.POST("/:day/sessions", api.addSession)
	cg.DELETE("/:day/sessions/:index", api.removeSession)

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.getLedger)
	ag.POST("/marks", api.mark)
	ag.GET("/summary", api.summary)
	ag.GET("/today", api.today)

	hg := g.Group("/holidays", jwt)
	hg.GET("", api.listHolidays)
	hg.POST("", api.markHoliday)
}

// Handlers

func (api *attendanceApi) listSubjects(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	subjects, err := api.svc.Subjects(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}
	if subjects == nil {
		subjects = []string{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *attendanceApi) addSubject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	subjects, err := api.svc.AddSubject(ctx.Request().Context(), claims.Subject, data.Name)
	if err != nil {
		if errors.Cause(err) == attendance.ErrSubjectExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return errors.Wrap(err, "adding subject")
	}
	return ctx.JSON(http.StatusCreated, subjects)
}

func (api *attendanceApi) removeSubject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.RemoveSubject(ctx.Request().Context(), claims.Subject, ctx.Param("name")); err != nil {
		if errors.Cause(err) == attendance.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "removing subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) getSchedule(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sched, err := api.svc.Schedule(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting schedule")
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *attendanceApi) updateSettings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data attendance.Settings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Settings")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sched, err := api.svc.UpdateSettings(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *attendanceApi) addSession(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	data.Day = ctx.Param("day")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sched, err := api.svc.AddSession(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		switch errors.Cause(err) {
		case attendance.ErrSubjectNotFound:
			return core.NewValidationError(err, core.FieldError{Field: "subject", Error: err.Error()})
		case attendance.ErrSessionConflict:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "adding session")
	}
	return ctx.JSON(http.StatusCreated, sched)
}

func (api *attendanceApi) removeSession(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	idx, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return errHttpNotFound
	}

	sched, err := api.svc.RemoveSession(ctx.Request().Context(), claims.Subject, ctx.Param("day"), idx)
	if err != nil {
		if errors.Cause(err) == attendance.ErrSessionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "removing session")
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *attendanceApi) getLedger(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	ledger, err := api.svc.Ledger(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting attendance")
	}
	return ctx.JSON(http.StatusOK, ledger)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMark")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	ledger, err := api.svc.Mark(reqCtx, claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == attendance.ErrAlreadyMarked {
			// repeats are reported, never double-counted
			ledger, err = api.svc.Ledger(reqCtx, claims.Subject)
			if err != nil {
				return errors.Wrap(err, "getting attendance")
			}
			return ctx.JSON(http.StatusOK, MarkResponse{AlreadyMarked: true, Attendance: ledger})
		}
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, MarkResponse{Attendance: ledger})
}

func (api *attendanceApi) summary(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	summaries, err := api.svc.Summary(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "building summary")
	}
	if summaries == nil {
		summaries = []attendance.SubjectSummary{}
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *attendanceApi) today(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	overview, err := api.svc.Today(ctx.Request().Context(), claims.Subject, time.Now())
	if err != nil {
		return errors.Wrap(err, "building day overview")
	}
	return ctx.JSON(http.StatusOK, overview)
}

func (api *attendanceApi) listHolidays(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	holidays, err := api.svc.Holidays(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing holidays")
	}
	return ctx.JSON(http.StatusOK, holidayDates(holidays))
}

func (api *attendanceApi) markHoliday(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewHoliday
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHoliday")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	holidays, err := api.svc.MarkHoliday(ctx.Request().Context(), claims.Subject, data.Date)
	if err != nil {
		return errors.Wrap(err, "marking holiday")
	}
	return ctx.JSON(http.StatusCreated, holidayDates(holidays))
}

type MarkResponse struct {
	AlreadyMarked bool              `json:"already_marked"`
	Attendance    attendance.Ledger `json:"attendance"`
}

func holidayDates(holidays attendance.HolidaySet) []string {
	dates := make([]string, 0, len(holidays))
	for date := range holidays {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
