package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/balance"
)

type balanceApi struct {
	opts *Options
}

func registerBalanceAPI(g *echo.Group, opts *Options) {
	api := balanceApi{opts: opts}

	g.GET("/balance", api.summary)

	eg := g.Group("/expenses")
	eg.POST("", api.createExpense)
	eg.GET("", api.queryExpenses)
	eg.DELETE("", api.destroyExpenses)
}

// Handlers

func (api *balanceApi) summary(ctx echo.Context) error {
	filter := new(balance.Filter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	summary, err := api.opts.BalanceSvc.Summarize(*filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *balanceApi) createExpense(ctx echo.Context) error {
	var data balance.NewExpense
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExpense")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	exp, err := api.opts.BalanceSvc.CreateExpense(data)
	if err != nil {
		return errors.Wrap(err, "creating expense")
	}
	return ctx.JSON(http.StatusCreated, exp)
}

func (api *balanceApi) queryExpenses(ctx echo.Context) error {
	filter := new(balance.Filter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	expenses, err := api.opts.BalanceSvc.QueryExpenses(*filter)
	if err != nil {
		return errors.Wrap(err, "querying expenses")
	}
	if expenses == nil {
		expenses = []balance.Expense{}
	}
	return ctx.JSON(http.StatusOK, expenses)
}

func (api *balanceApi) destroyExpenses(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if err := api.opts.BalanceSvc.DeleteExpenses(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting expenses")
	}
	return ctx.NoContent(http.StatusNoContent)
}
