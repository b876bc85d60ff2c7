package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/message"
)

type messageApi struct {
	opts *Options
}

func registerMessageAPI(g *echo.Group, opts *Options) {
	api := messageApi{opts: opts}

	mg := g.Group("/messages")
	mg.POST("", api.create)
	mg.GET("", api.query)
	mg.GET("/:id", api.retrieve)
	mg.GET("/:id/recipients", api.queryRecipients)
	mg.POST("/:id/read", api.markRead)
}

// Handlers

func (api *messageApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data message.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	msg, err := api.opts.MessageSvc.Send(usr.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *messageApi) query(ctx echo.Context) error {
	var teamID uuid.UUID
	if raw := ctx.QueryParam("team_id"); raw != "" {
		var err error
		if teamID, err = uuid.Parse(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "identificativo non valido")
		}
	}
	msgs, err := api.opts.MessageSvc.Query(teamID)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	msg, err := api.opts.MessageSvc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (api *messageApi) queryRecipients(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err := api.opts.MessageSvc.GetByID(id); err != nil {
		return err
	}
	rcpts, err := api.opts.MessageSvc.Recipients(id)
	if err != nil {
		return errors.Wrap(err, "querying recipients")
	}
	if rcpts == nil {
		rcpts = []message.Recipient{}
	}
	return ctx.JSON(http.StatusOK, rcpts)
}

// markRead stamps the caller's read receipt; re-reading is a no-op.
func (api *messageApi) markRead(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}
	if _, err := api.opts.MessageSvc.GetByID(id); err != nil {
		return err
	}
	if err := api.opts.MessageSvc.MarkRead(id, usr.ID); err != nil {
		return errors.Wrap(err, "marking message read")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}
