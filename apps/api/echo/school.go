package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pamoja/core/school"
	"github.com/trezcool/pamoja/core/user"
)

type schoolApi struct {
	svc      school.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerSchoolAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc school.Service,
	usrSvc user.Service,
	validate *validator.Validate,
) {
	api := schoolApi{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	sg := g.Group("/schools")

	// public endpoints
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.GET("/:id/stats", api.stats)
	sg.GET("/:id/top-students", api.topStudents)
	sg.GET("/:id/page", api.publicPage)
	sg.GET("/:id/events/upcoming", api.upcomingEvents)

	// authed endpoints
	sg.POST("", api.create, jwt)
	sg.GET("/:id/dashboard", api.dashboard, jwt)
	sg.POST("/:id/events", api.createEvent, jwt)

	eg := g.Group("/events", jwt)
	eg.PUT("/:id", api.updateEvent)
	eg.DELETE("/:id", api.destroyEvent)
}

// requireOwnerOrAdmin rejects the request unless the context user is an admin
// or owns the school.
func (api *schoolApi) requireOwnerOrAdmin(ctx echo.Context, schoolID int) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if ctxUsr.IsAdmin() {
		return nil
	}
	sch, err := api.svc.GetByID(schoolID)
	if err != nil {
		return errors.Wrap(err, "finding school by ID")
	}
	if sch.OwnerID != ctxUsr.ID {
		return errHttpForbidden
	}
	return nil
}

// Handlers

func (api *schoolApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !(ctxUsr.IsOrganizer() || ctxUsr.IsAdmin()) {
		return errHttpForbidden
	}

	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sch, err := api.svc.Create(ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating school")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) query(ctx echo.Context) error {
	schools, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	if schools == nil {
		schools = []school.School{}
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	sch, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding school by ID")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) stats(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	stats, err := api.svc.Stats(id)
	if err != nil {
		return errors.Wrap(err, "computing school stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *schoolApi) topStudents(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	ranked, err := api.svc.TopStudents(id, limit)
	if err != nil {
		return errors.Wrap(err, "ranking students")
	}
	if ranked == nil {
		ranked = []school.RankedStudent{}
	}
	return ctx.JSON(http.StatusOK, ranked)
}

func (api *schoolApi) dashboard(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.requireOwnerOrAdmin(ctx, id); err != nil {
		return err
	}

	dash, err := api.svc.Dashboard(id)
	if err != nil {
		return errors.Wrap(err, "composing school dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *schoolApi) publicPage(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	page, err := api.svc.PublicPage(id)
	if err != nil {
		return errors.Wrap(err, "composing school page")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *schoolApi) upcomingEvents(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	events, err := api.svc.UpcomingEvents(id)
	if err != nil {
		return errors.Wrap(err, "querying upcoming events")
	}
	if events == nil {
		events = []school.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *schoolApi) createEvent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.requireOwnerOrAdmin(ctx, id); err != nil {
		return err
	}

	var data school.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err := api.svc.CreateEvent(id, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *schoolApi) updateEvent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	evt, err := api.svc.GetEvent(id)
	if err != nil {
		return errors.Wrap(err, "finding event by ID")
	}
	if err = api.requireOwnerOrAdmin(ctx, evt.SchoolID); err != nil {
		return err
	}

	var data school.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	evt, err = api.svc.UpdateEvent(id, data)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *schoolApi) destroyEvent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	evt, err := api.svc.GetEvent(id)
	if err != nil {
		return errors.Wrap(err, "finding event by ID")
	}
	if err = api.requireOwnerOrAdmin(ctx, evt.SchoolID); err != nil {
		return err
	}

	if err := api.svc.DeleteEvent(id); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
