package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/event"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type eventApi struct {
	svc  *event.Service
	conf *core.Config
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *event.Service, conf *core.Config) {
	api := eventApi{svc: svc, conf: conf}

	// public listing
	g.GET("/events", api.query)

	ag := g.Group("", jwt)
	ag.GET("/events/recommended", api.recommended)
	ag.GET("/events/csv-template", api.csvTemplate, rolesMiddleware(user.AdminRoles...))
	ag.POST("/events/bulk-import", api.bulkImport, rolesMiddleware(user.AdminRoles...))
	ag.POST("/events", api.create, rolesMiddleware(user.AdminRoles...))
	ag.PUT("/events/:id", api.update, rolesMiddleware(user.AdminRoles...))
	ag.DELETE("/events/:id", api.destroy, rolesMiddleware(user.AdminRoles...))

	g.GET("/events/:id", api.retrieve)

	ag.POST("/event-comments", api.addComment, rolesMiddleware(user.RoleStudent))
	ag.GET("/event-comments/:eventId", api.comments)
}

// Handlers

func (api *eventApi) query(ctx echo.Context) error {
	events, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	evt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

// bindNewEvent accepts JSON or multipart form (with an optional image file).
func (api *eventApi) bindNewEvent(ctx echo.Context) (event.NewEvent, error) {
	var data event.NewEvent
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := ctx.Bind(&data); err != nil {
			return data, errors.Wrap(err, "binding to NewEvent")
		}
		return data, nil
	}

	data.Title = ctx.FormValue("title")
	data.Description = ctx.FormValue("description")
	data.Category = ctx.FormValue("category")
	data.Location = ctx.FormValue("location")
	if val := ctx.FormValue("start_date"); val != "" {
		start, err := event.ParseDate(val)
		if err != nil {
			return data, core.NewValidationError(nil, core.FieldError{Field: "start_date", Error: "invalid date"})
		}
		data.StartDate = start
	}
	if val := ctx.FormValue("end_date"); val != "" {
		end, err := event.ParseDate(val)
		if err != nil {
			return data, core.NewValidationError(nil, core.FieldError{Field: "end_date", Error: "invalid date"})
		}
		data.EndDate = end
	}
	if fh, err := ctx.FormFile("image"); err == nil {
		path, err := saveUpload(fh, api.conf.UploadsDir, "events")
		if err != nil {
			return data, errors.Wrap(err, "saving event image")
		}
		data.ImageURL = path
	}
	return data, nil
}

func (api *eventApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data, err := api.bindNewEvent(ctx)
	if err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	evt, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) update(ctx echo.Context) error {
	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	evt, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *eventApi) recommended(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	events, err := api.svc.Recommended(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "recommending events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) addComment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data event.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	row, err := api.svc.AddComment(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, row)
}

func (api *eventApi) comments(ctx echo.Context) error {
	rows, err := api.svc.Comments(ctx.Request().Context(), ctx.Param("eventId"))
	if err != nil {
		return errors.Wrap(err, "querying comments")
	}
	if rows == nil {
		rows = []event.CommentRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *eventApi) csvTemplate(ctx echo.Context) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="events_template.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv", []byte(event.CSVTemplate))
}

func (api *eventApi) bulkImport(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "CSV file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	res, err := api.svc.BulkImport(ctx.Request().Context(), claims.Subject, src)
	if err != nil {
		return errors.Wrap(err, "importing events")
	}
	if res.Rejected {
		return ctx.JSON(http.StatusBadRequest, res)
	}
	return ctx.JSON(http.StatusCreated, res)
}
