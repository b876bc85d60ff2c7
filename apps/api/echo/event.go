package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/event"
)

type eventApi struct {
	opts *Options
}

func registerEventAPI(g *echo.Group, opts *Options) {
	api := eventApi{opts: opts}

	eg := g.Group("/events")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	created, err := api.opts.EventSvc.Create(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *eventApi) query(ctx echo.Context) error {
	filter := new(event.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	page, err := api.opts.EventSvc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	evt, err := api.opts.EventSvc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	evt, err := api.opts.EventSvc.Update(id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

// destroy removes one occurrence; `?scope=series` removes the whole series.
func (api *eventApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.opts.EventSvc.Delete(id, ctx.QueryParam("scope")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
