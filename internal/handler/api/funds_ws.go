package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"FundLens/internal/domain/models"
	"FundLens/internal/usecase"
	xhttp "FundLens/pkg/http"
	xlogger "FundLens/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsMaxMessage = 1024
)

// FundsWSHandler runs one window-switching session per connection. The
// series is fetched once per session and every window change is computed
// from that copy.
type FundsWSHandler struct {
	logger   *xlogger.Logger
	funds    *usecase.FundService
	upgrader websocket.Upgrader
}

func NewFundsWSHandler(logger *xlogger.Logger, funds *usecase.FundService) *FundsWSHandler {
	return &FundsWSHandler{
		logger: logger,
		funds:  funds,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *FundsWSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/funds/:code", h.Session)
}

type wsError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *FundsWSHandler) Session(c echo.Context) error {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code <= 0 {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid scheme code %q", c.Param("code")))
	}
	w, verr := resolveWindow(c.QueryParam("window"), h.funds.DefaultWindow())
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	log := h.logger.With(xlogger.Int("scheme_code", code), xlogger.String("remote_ip", c.RealIP()))
	log.Debug("websocket session opened")

	ctx := c.Request().Context()
	d, err := h.funds.Details(ctx, code)
	if err != nil {
		log.Error("websocket details error", xlogger.Error(err))
		h.writeErrorAndClose(conn, err)
		return nil
	}

	if err := h.write(conn, h.funds.NewFundView(d, w)); err != nil {
		return nil
	}

	done := make(chan struct{})
	defer close(done)
	go h.pinger(conn, done)

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("websocket read error", xlogger.Error(err))
			}
			log.Debug("websocket session closed")
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var msg models.WindowMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if h.write(conn, wsError{Error: "malformed message", Code: xhttp.CodeBadRequest}) != nil {
				return nil
			}
			continue
		}
		next, verr := resolveWindow(msg.Window, h.funds.DefaultWindow())
		if verr != nil {
			if h.write(conn, wsError{Error: verr[0].Message, Code: verr[0].Code}) != nil {
				return nil
			}
			continue
		}
		if h.write(conn, h.funds.NewFundView(d, next)) != nil {
			return nil
		}
	}
}

func (h *FundsWSHandler) write(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(v)
}

func (h *FundsWSHandler) writeErrorAndClose(conn *websocket.Conn, err error) {
	msg := wsError{Error: "internal error", Code: xhttp.CodeInternal}
	var appErr *xhttp.AppError
	if errors.As(toAppError(err), &appErr) {
		msg = wsError{Error: appErr.Message, Code: appErr.Code}
	}
	if h.write(conn, msg) != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, msg.Code),
		time.Now().Add(wsWriteWait))
}

// pinger keeps the connection alive. WriteControl is safe alongside the
// session's writes.
func (h *FundsWSHandler) pinger(conn *websocket.Conn, done <-chan struct{}) {
	t := time.NewTicker(wsPingPeriod)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
