package api

import (
	"errors"

	"FundLens/internal/domain/models"
	domrepo "FundLens/internal/domain/repository"
	"FundLens/internal/services/navseries"
	"FundLens/internal/usecase"
	xhttp "FundLens/pkg/http"
	xlogger "FundLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FundsEchoHandler serves the catalog and fund-detail endpoints.
type FundsEchoHandler struct {
	logger *xlogger.Logger
	funds  *usecase.FundService
}

func NewFundsEchoHandler(logger *xlogger.Logger, funds *usecase.FundService) *FundsEchoHandler {
	return &FundsEchoHandler{logger: logger, funds: funds}
}

func (h *FundsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/windows", h.Windows)
	g.GET("/funds", h.List)
	g.GET("/funds/:code", h.View)
}

type windowsResponse struct {
	Default navseries.Window         `json:"default"`
	Options []navseries.WindowOption `json:"options"`
}

func (h *FundsEchoHandler) Windows(c echo.Context) error {
	return xhttp.SuccessResponse(c, windowsResponse{
		Default: h.funds.DefaultWindow(),
		Options: navseries.WindowOptions(),
	})
}

func (h *FundsEchoHandler) List(c echo.Context) error {
	req := &models.ListFundsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	page, err := h.funds.ListSchemes(c.Request().Context(), req.Query, req.Page, req.Limit)
	if err != nil {
		h.logger.Error("list schemes error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
	return xhttp.ListResponse(c, page.Rows, page.Total, page.Page, page.Limit, page.TotalPages)
}

func (h *FundsEchoHandler) View(c echo.Context) error {
	req := &models.FundViewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w, verr := resolveWindow(req.Window, h.funds.DefaultWindow())
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.funds.FundView(c.Request().Context(), req.Code, w)
	if err != nil {
		h.logger.Error("fund view error", xlogger.Int("scheme_code", req.Code), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, view)
}

// resolveWindow maps a query value to a window, falling back to def when empty.
func resolveWindow(raw string, def navseries.Window) (navseries.Window, []xhttp.ValidationError) {
	if raw == "" {
		return def, nil
	}
	w, ok := navseries.ParseWindow(raw)
	if !ok {
		return "", []xhttp.ValidationError{windowError(raw)}
	}
	return w, nil
}

func windowError(raw string) xhttp.ValidationError {
	opts := navseries.WindowOptions()
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = string(o.Value)
	}
	return xhttp.ValidationError{
		Code:    "ERR_ONEOF",
		Field:   "window",
		Message: "unknown window " + raw,
		Params:  map[string]interface{}{"options": values},
	}
}

// toAppError maps domain failures to HTTP errors.
func toAppError(err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domrepo.ErrSchemeNotFound):
		return xhttp.NotFoundError("scheme not found").WithError(err)
	case errors.Is(err, domrepo.ErrUpstream):
		return xhttp.UpstreamError("upstream data source unavailable, retry later").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
