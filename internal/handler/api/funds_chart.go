package api

import (
	"bytes"
	"net/http"

	"FundLens/internal/chart"
	"FundLens/internal/domain/models"
	"FundLens/internal/usecase"
	xhttp "FundLens/pkg/http"
	xlogger "FundLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FundsChartHandler renders fund NAV charts as PNG.
type FundsChartHandler struct {
	logger *xlogger.Logger
	funds  *usecase.FundService
}

func NewFundsChartHandler(logger *xlogger.Logger, funds *usecase.FundService) *FundsChartHandler {
	return &FundsChartHandler{logger: logger, funds: funds}
}

func (h *FundsChartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/funds/:code/chart.png", h.Chart)
}

func (h *FundsChartHandler) Chart(c echo.Context) error {
	req := &models.FundChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w, verr := resolveWindow(req.Window, h.funds.DefaultWindow())
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d, err := h.funds.Details(c.Request().Context(), req.Code)
	if err != nil {
		h.logger.Error("chart details error", xlogger.Int("scheme_code", req.Code), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	view := h.funds.Render(d, w)
	if len(view.Points) < 2 {
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(xhttp.CodeNoData, "not enough data points for this window").
			WithParam("window", string(w)).
			WithParam("points", len(view.Points)))
	}

	var buf bytes.Buffer
	err = chart.RenderNAV(&buf, view.Points, chart.Options{
		Title:  chart.Title(d.Meta.SchemeName, w),
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		h.logger.Error("chart render error", xlogger.Int("scheme_code", req.Code), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("chart rendering failed").WithError(err))
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
