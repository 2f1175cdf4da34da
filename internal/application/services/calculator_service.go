package services

import (
	"fmt"
	"sync"

	"github.com/taskmaster/desk/internal/calc"
	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// CalculatorService evaluates expressions, computes GST and keeps the
// in-memory history of results
type CalculatorService struct {
	defaultRate float64
	history     *calc.History
	logger      *logger.Logger

	mu     sync.Mutex
	keypad *calc.Keypad
}

// NewCalculatorService creates a new calculator service
func NewCalculatorService(cfg config.CalcConfig, logger *logger.Logger) *CalculatorService {
	rate := cfg.DefaultRate
	if !entities.IsGSTSlab(rate) {
		rate = entities.DefaultGSTRate
	}

	s := &CalculatorService{
		defaultRate: rate,
		history:     calc.NewHistory(cfg.HistoryLimit),
		logger:      logger.WithComponent("calc"),
	}
	s.keypad = &calc.Keypad{OnEvaluate: s.recordEvaluation}

	return s
}

// Evaluate runs expr through the arithmetic grammar
func (s *CalculatorService) Evaluate(expr string) (*ports.EvalResponse, error) {
	v, err := calc.Eval(expr)
	if err != nil {
		s.logger.Debugw("Expression rejected", "expression", expr, "error", err)
		return nil, err
	}

	display := calc.Format(v)
	s.recordEvaluation(expr, display)

	return &ports.EvalResponse{
		Expression: expr,
		Value:      v,
		Display:    display,
	}, nil
}

// GST adds, removes or calculates tax on an amount. A nil rate uses the
// configured default slab.
func (s *CalculatorService) GST(req ports.GSTRequest) (*entities.GSTResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	rate := s.defaultRate
	if req.Rate != nil {
		rate = *req.Rate
	}
	if !entities.IsGSTSlab(rate) {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidGSTRate, rate)
	}

	var (
		result *entities.GSTResult
		line   string
	)
	switch req.Mode {
	case entities.GSTModeAdd:
		result = AddGST(req.Amount, rate)
		line = fmt.Sprintf("Added %s%% GST to %s = %s", calc.Format(rate), calc.Format(req.Amount), entities.Money(result.Total))
	case entities.GSTModeRemove:
		result = RemoveGST(req.Amount, rate)
		line = fmt.Sprintf("Removed %s%% GST from %s = %s", calc.Format(rate), calc.Format(req.Amount), entities.Money(result.Base))
	default:
		result = CalculateGST(req.Amount, rate)
		line = fmt.Sprintf("Calculated %s%% GST on %s = %s", calc.Format(rate), calc.Format(req.Amount), entities.Money(result.GSTAmount))
	}

	s.history.Add(line)
	s.logger.Debugw("GST computed", "mode", req.Mode, "rate", rate, "amount", req.Amount)

	return result, nil
}

// Press applies a keypad key to the shared display
func (s *CalculatorService) Press(key string) (*ports.KeypadState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.keypad.Press(key)
	state := &ports.KeypadState{Input: s.keypad.Input(), Result: s.keypad.Result()}

	return state, err
}

// History returns recorded results, oldest first
func (s *CalculatorService) History() []string {
	return s.history.Entries()
}

func (s *CalculatorService) recordEvaluation(expr, display string) {
	s.history.Add(fmt.Sprintf("%s = %s", expr, display))
}

// AddGST treats amount as the pre-tax base
func AddGST(amount, rate float64) *entities.GSTResult {
	gst := amount * rate / 100
	return &entities.GSTResult{
		Mode:      entities.GSTModeAdd,
		Rate:      rate,
		Amount:    amount,
		Base:      amount,
		GSTAmount: gst,
		Total:     amount + gst,
	}
}

// RemoveGST treats amount as tax-inclusive and extracts the base
func RemoveGST(amount, rate float64) *entities.GSTResult {
	base := amount / (1 + rate/100)
	return &entities.GSTResult{
		Mode:      entities.GSTModeRemove,
		Rate:      rate,
		Amount:    amount,
		Base:      base,
		GSTAmount: amount - base,
		Total:     amount,
	}
}

// CalculateGST reports only the tax part on a pre-tax amount
func CalculateGST(amount, rate float64) *entities.GSTResult {
	r := AddGST(amount, rate)
	r.Mode = entities.GSTModeCalculate
	return r
}
