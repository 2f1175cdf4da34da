package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// GSTResponse is a GST result with its amounts formatted to two decimals
type GSTResponse struct {
	entities.GSTResult
	Formatted GSTAmounts `json:"formatted"`
}

type GSTAmounts struct {
	Base      string `json:"base"`
	GSTAmount string `json:"gst_amount"`
	Total     string `json:"total"`
}

// HistoryResponse lists calculator history, oldest first
type HistoryResponse struct {
	History []string `json:"history"`
}

// CalcHandler handles calculator and GST requests
type CalcHandler struct {
	calcService ports.CalculatorService
	logger      *logger.Logger
}

// NewCalcHandler creates a new calculator handler
func NewCalcHandler(calcService ports.CalculatorService, logger *logger.Logger) *CalcHandler {
	return &CalcHandler{
		calcService: calcService,
		logger:      logger,
	}
}

// Evaluate godoc
// @Summary Evaluate an arithmetic expression
// @Tags calc
// @Accept json
// @Produce json
// @Param request body ports.EvalRequest true "Expression"
// @Success 200 {object} ports.EvalResponse
// @Failure 400 {object} ports.ErrorResponse
// @Router /calc/eval [post]
func (h *CalcHandler) Evaluate(c echo.Context) error {
	var req ports.EvalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.calcService.Evaluate(req.Expression)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}

// GST godoc
// @Summary Add, remove or calculate GST
// @Tags calc
// @Accept json
// @Produce json
// @Param request body ports.GSTRequest true "Mode, amount and optional rate"
// @Success 200 {object} GSTResponse
// @Failure 400 {object} ports.ErrorResponse
// @Router /calc/gst [post]
func (h *CalcHandler) GST(c echo.Context) error {
	var req ports.GSTRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.calcService.GST(req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, GSTResponse{
		GSTResult: *res,
		Formatted: GSTAmounts{
			Base:      entities.Money(res.Base),
			GSTAmount: entities.Money(res.GSTAmount),
			Total:     entities.Money(res.Total),
		},
	})
}

// Press applies one keypad key to the shared display
func (h *CalcHandler) Press(c echo.Context) error {
	var req ports.KeypadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	state, err := h.calcService.Press(req.Key)
	if err != nil {
		// The display already carries the error text.
		h.logger.Debugw("Keypad evaluation failed", "error", err)
	}

	return c.JSON(http.StatusOK, state)
}

func (h *CalcHandler) History(c echo.Context) error {
	return c.JSON(http.StatusOK, HistoryResponse{History: h.calcService.History()})
}
