package echoapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/fee"
)

// Membership fee PATCH actions.
const (
	actionGenerateInstallments = "generate_installments"
	actionRecalculateStatuses  = "recalculate_installment_statuses"
	actionBulkUpdate           = "bulk_update_installments"
	actionAssignFee            = "assign_fee"
)

type feeApi struct {
	opts *Options
}

func registerFeeAPI(g *echo.Group, opts *Options) {
	api := feeApi{opts: opts}

	fg := g.Group("/membership-fees")
	fg.POST("", api.create)
	fg.PATCH("", api.patch)
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
	fg.GET("/:id/installments", api.queryInstallments)
}

// Handlers

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewMembershipFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMembershipFee")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	created, err := api.opts.FeeSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating membership fee")
	}
	return ctx.JSON(http.StatusCreated, FeeResponse{Success: true, FeeID: created.ID})
}

// patch dispatches the batch actions on the fee/installment aggregate.
func (api *feeApi) patch(ctx echo.Context) error {
	var data FeeActionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FeeActionRequest")
	}

	switch data.Action {
	case actionGenerateInstallments:
		if data.FeeID == uuid.Nil {
			return core.NewValidationError(nil, core.FieldError{Field: "fee_id", Error: "campo obbligatorio"})
		}
		created, err := api.opts.FeeSvc.GenerateInstallments(data.FeeID)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, SuccessResponse{
			Success: true,
			Message: fmt.Sprintf("%d rate generate", created),
		})

	case actionRecalculateStatuses:
		if _, err := api.opts.FeeSvc.RecalculateStatuses(); err != nil {
			return errors.Wrap(err, "recalculating installment statuses")
		}
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})

	case actionBulkUpdate:
		bu := fee.BulkStatusUpdate{InstallmentIDs: data.InstallmentIDs, Status: data.Status}
		if err := bu.Validate(api.opts.Validate); err != nil {
			return err
		}
		if _, err := api.opts.FeeSvc.BulkUpdateStatus(bu); err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})

	case actionAssignFee:
		if data.FeeID == uuid.Nil {
			return core.NewValidationError(nil, core.FieldError{Field: "fee_id", Error: "campo obbligatorio"})
		}
		if len(data.ProfileIDs) == 0 {
			return core.NewValidationError(nil, core.FieldError{Field: "profile_ids", Error: "campo obbligatorio"})
		}
		created, err := api.opts.FeeSvc.AssignToProfiles(data.FeeID, data.ProfileIDs...)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, SuccessResponse{
			Success: true,
			Message: fmt.Sprintf("%d rate assegnate", created),
		})
	}

	return core.NewValidationError(nil, core.FieldError{Field: "action", Error: "valore non consentito"})
}

func (api *feeApi) query(ctx echo.Context) error {
	var teamID uuid.UUID
	if raw := ctx.QueryParam("team_id"); raw != "" {
		var err error
		if teamID, err = uuid.Parse(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "identificativo non valido")
		}
	}
	fees, err := api.opts.FeeSvc.Query(teamID)
	if err != nil {
		return errors.Wrap(err, "querying membership fees")
	}
	if fees == nil {
		fees = []fee.MembershipFee{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *feeApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	f, err := api.opts.FeeSvc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data fee.UpdateMembershipFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMembershipFee")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	f, err := api.opts.FeeSvc.Update(id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.opts.FeeSvc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting membership fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *feeApi) queryInstallments(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err := api.opts.FeeSvc.GetByID(id); err != nil {
		return err
	}
	insts, err := api.opts.FeeSvc.Installments(id)
	if err != nil {
		return errors.Wrap(err, "querying installments")
	}
	if insts == nil {
		insts = []fee.FeeInstallment{}
	}
	return ctx.JSON(http.StatusOK, insts)
}

type (
	// FeeActionRequest is the PATCH envelope; fields beyond Action are
	// interpreted per action.
	FeeActionRequest struct {
		Action         string      `json:"action"`
		FeeID          uuid.UUID   `json:"fee_id"`
		ProfileIDs     []uuid.UUID `json:"profile_ids"`
		InstallmentIDs []uuid.UUID `json:"installment_ids"`
		Status         string      `json:"status"`
	}

	FeeResponse struct {
		Success bool      `json:"success"`
		FeeID   uuid.UUID `json:"fee_id"`
	}
)
