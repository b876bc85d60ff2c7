package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/club"
)

type athleteApi struct {
	opts *Options
}

func registerAthleteAPI(g *echo.Group, opts *Options) {
	api := athleteApi{opts: opts}
	g.POST("/athletes/bulk", api.bulk)
}

// bulk applies one of the bulk athlete operations; dryRun previews the
// affected count without writing.
func (api *athleteApi) bulk(ctx echo.Context) error {
	var data club.BulkAthletesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkAthletesRequest")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	result, err := api.opts.ClubSvc.BulkAthletes(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}
