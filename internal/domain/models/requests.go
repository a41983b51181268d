package models

// Requests for fund HTTP endpoints. Defined in domain for consistency and reuse.

type ListFundsRequest struct {
	Query string `query:"q" json:"q" validate:"max=200"`
	Page  int    `query:"page" json:"page" default:"1" validate:"gte=1"`
	Limit int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type FundViewRequest struct {
	Code   int    `param:"code" json:"code" validate:"required,gt=0"`
	Window string `query:"window" json:"window" validate:"max=3"`
}

type FundChartRequest struct {
	Code   int    `param:"code" json:"code" validate:"required,gt=0"`
	Window string `query:"window" json:"window" validate:"max=3"`
	Width  int    `query:"width" json:"width" default:"1024" validate:"gte=200,lte=4096"`
	Height int    `query:"height" json:"height" default:"512" validate:"gte=150,lte=4096"`
}

// WindowMessage is sent by a WebSocket client to change the window.
type WindowMessage struct {
	Window string `json:"window"`
}
