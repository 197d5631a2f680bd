package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pamoja/core/school"
	"github.com/trezcool/pamoja/core/student"
	"github.com/trezcool/pamoja/core/user"
)

type studentApi struct {
	svc       student.Service
	schoolSvc school.Service
	usrSvc    user.Service
	validate  *validator.Validate
}

func registerStudentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc student.Service,
	schoolSvc school.Service,
	usrSvc user.Service,
	validate *validator.Validate,
) {
	api := studentApi{
		svc:       svc,
		schoolSvc: schoolSvc,
		usrSvc:    usrSvc,
		validate:  validate,
	}

	g.POST("/schools/:id/students", api.register, jwt)

	sg := g.Group("/students")

	// public endpoints: anyone can look up a student and donate
	sg.GET("/:id", api.retrieve)
	sg.GET("/:id/stats", api.stats)
	sg.GET("/:id/donations", api.queryDonations)
	sg.POST("/:id/donations", api.donate)

	// authed endpoints
	sg.GET("/:id/dashboard", api.dashboard, jwt)
}

// requireStudentAccess rejects the request unless the context user is an
// admin, owns the student, or owns the student's school.
func (api *studentApi) requireStudentAccess(ctx echo.Context, st student.Student) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if ctxUsr.IsAdmin() || st.OwnerID == ctxUsr.ID {
		return nil
	}
	sch, err := api.schoolSvc.GetByID(st.SchoolID)
	if err != nil {
		return errors.Wrap(err, "finding school by ID")
	}
	if sch.OwnerID != ctxUsr.ID {
		return errHttpForbidden
	}
	return nil
}

// Handlers

func (api *studentApi) register(ctx echo.Context) error {
	schoolID, err := pathID(ctx)
	if err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() {
		sch, err := api.schoolSvc.GetByID(schoolID)
		if err != nil {
			return errors.Wrap(err, "finding school by ID")
		}
		if sch.OwnerID != ctxUsr.ID {
			return errHttpForbidden
		}
	}

	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	st, err := api.svc.Register(schoolID, ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	st, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) stats(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	stats, err := api.svc.Stats(id)
	if err != nil {
		return errors.Wrap(err, "computing student stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *studentApi) dashboard(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	st, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	if err = api.requireStudentAccess(ctx, st); err != nil {
		return err
	}

	dash, err := api.svc.Dashboard(id)
	if err != nil {
		return errors.Wrap(err, "composing student dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *studentApi) queryDonations(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	donations, err := api.svc.Donations(id)
	if err != nil {
		return errors.Wrap(err, "querying donations")
	}
	if donations == nil {
		donations = []student.Donation{}
	}
	return ctx.JSON(http.StatusOK, donations)
}

func (api *studentApi) donate(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data student.NewDonation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDonation")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	don, err := api.svc.Donate(id, data)
	if err != nil {
		return errors.Wrap(err, "recording donation")
	}
	return ctx.JSON(http.StatusCreated, don)
}
