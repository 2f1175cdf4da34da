package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// GameHandler plays single rock-paper-scissors rounds
type GameHandler struct {
	gameService ports.GameService
	logger      *logger.Logger
}

func NewGameHandler(gameService ports.GameService, logger *logger.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logger,
	}
}

// PlayRound resolves one round. Scores are kept by the caller.
func (h *GameHandler) PlayRound(c echo.Context) error {
	var req ports.RoundRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.gameService.PlayRound(req.Choice)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, res)
}
