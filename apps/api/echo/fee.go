package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/fee"
)

type feeApi struct {
	svc      *fee.Service
	renderer fee.SlipRenderer
	org      core.OrgConfig
}

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := feeApi{
		svc:      deps.FeeSvc,
		renderer: deps.SlipRenderer,
		org:      deps.Conf.Org,
	}

	fg := g.Group("/fees")

	// un-authed endpoints: the public fee viewer
	fg.GET("", api.query)
	fg.GET("/boards", api.queryBoards)
	fg.GET("/grades", api.queryGrades)
	fg.GET("/slip", api.downloadSlip)

	// admin endpoints
	ag := fg.Group("", jwt, adminMiddleware())
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

// query returns the full catalog, or a single record when both grade and
// board are supplied. Partial filters narrow the list; an exact pair that
// matches nothing is a 404, never a substitute record.
func (api *feeApi) query(ctx echo.Context) error {
	filter := new(fee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	if filter.Grade != "" && filter.Board != "" {
		f, ok := api.svc.Lookup(filter.Grade, filter.Board)
		if !ok {
			return errHttpNotFound
		}
		return ctx.JSON(http.StatusOK, f)
	}

	records := api.svc.All()
	if !filter.IsEmpty() {
		filtered := records[:0]
		for _, f := range records {
			if filter.Grade != "" && f.Grade != filter.Grade {
				continue
			}
			if filter.Board != "" && f.Board != filter.Board {
				continue
			}
			filtered = append(filtered, f)
		}
		records = filtered
	}
	if records == nil {
		records = []fee.Fee{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *feeApi) queryBoards(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, fee.Boards)
}

func (api *feeApi) queryGrades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, fee.Grades)
}

// downloadSlip renders the PDF fee slip for an exact (grade, board) pair.
func (api *feeApi) downloadSlip(ctx echo.Context) error {
	filter := new(fee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if filter.Grade == "" || filter.Board == "" {
		return core.NewValidationError(errors.New("grade and board are required"))
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	f, ok := api.svc.Lookup(filter.Grade, filter.Board)
	if !ok {
		return errHttpNotFound
	}

	slip := fee.NewSlip(api.org, f, time.Now())
	doc, err := api.renderer.Render(slip)
	if err != nil {
		return errors.Wrap(err, "rendering fee slip")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", slip.Filename()))
	return ctx.Blob(http.StatusOK, "application/pdf", doc)
}

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}

	f, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating fee")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *feeApi) update(ctx echo.Context) error {
	var data fee.UpdateFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFee")
	}

	f, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == fee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating fee")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == fee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}
