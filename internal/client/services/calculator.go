package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/smartcalc/internal/client/client"
	"github.com/dmitrijs2005/smartcalc/internal/client/models"
	"github.com/dmitrijs2005/smartcalc/internal/common"
)

const (
	msgCalculationFailed   = "calculation failed"
	msgAICalculationFailed = "AI calculation failed"
	msgValidationFailed    = "validation failed"
)

type CalculatorState struct {
	Expression        string
	Result            *float64
	IsLoading         bool
	Error             string
	UseAI             bool
	LastCalculationID string
	// TokensUsed is reported for natural-language calculations only.
	TokensUsed *int
}

type CalculatorService interface {
	State() CalculatorState
	SetExpression(expr string)
	Calculate(ctx context.Context) (*models.CalculateResponse, error)
	AICalculate(ctx context.Context, query string) (*models.AICalculateResponse, error)
	Validate(ctx context.Context) (*models.ValidateResponse, error)
	Clear()
	ToggleAI() bool
	ClearError()
}

type calculatorService struct {
	client client.Client

	mu    sync.Mutex
	state CalculatorState
}

func NewCalculatorService(c client.Client) CalculatorService {
	return &calculatorService{client: c}
}

func (c *calculatorService) State() CalculatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	if st.Result != nil {
		r := *st.Result
		st.Result = &r
	}
	if st.TokensUsed != nil {
		n := *st.TokensUsed
		st.TokensUsed = &n
	}
	return st
}

func (c *calculatorService) update(fn func(*CalculatorState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

func (c *calculatorService) begin() {
	c.update(func(s *CalculatorState) {
		s.IsLoading = true
		s.Error = ""
	})
}

func (c *calculatorService) fail(err error, fallback string) {
	c.update(func(s *CalculatorState) {
		s.IsLoading = false
		s.Error = errorMessage(err, fallback)
		s.Result = nil
	})
}

func (c *calculatorService) SetExpression(expr string) {
	c.update(func(s *CalculatorState) {
		s.Expression = expr
		s.Error = ""
	})
}

// Calculate evaluates the current expression. A blank expression sets the
// error without contacting the server.
func (c *calculatorService) Calculate(ctx context.Context) (*models.CalculateResponse, error) {
	expr := c.State().Expression
	if strings.TrimSpace(expr) == "" {
		c.update(func(s *CalculatorState) { s.Error = common.ErrEmptyExpression.Error() })
		return nil, common.ErrEmptyExpression
	}

	c.begin()
	resp, err := c.client.Calculate(ctx, expr)
	if err != nil {
		c.fail(err, msgCalculationFailed)
		return nil, fmt.Errorf("calculate: %w", err)
	}

	result := resp.Result
	c.update(func(s *CalculatorState) {
		s.Result = &result
		s.LastCalculationID = resp.CalculationID
		s.TokensUsed = nil
		s.IsLoading = false
	})
	return resp, nil
}

// AICalculate sends a natural-language query. On success the expression the
// server understood replaces the current one.
func (c *calculatorService) AICalculate(ctx context.Context, query string) (*models.AICalculateResponse, error) {
	if strings.TrimSpace(query) == "" {
		c.update(func(s *CalculatorState) { s.Error = common.ErrEmptyQuery.Error() })
		return nil, common.ErrEmptyQuery
	}

	c.begin()
	resp, err := c.client.AICalculate(ctx, query)
	if err != nil {
		c.fail(err, msgAICalculationFailed)
		return nil, fmt.Errorf("ai calculate: %w", err)
	}

	result := resp.Result
	c.update(func(s *CalculatorState) {
		s.Expression = resp.Understood
		s.Result = &result
		s.LastCalculationID = resp.CalculationID
		s.TokensUsed = resp.TokensUsed
		s.IsLoading = false
	})
	return resp, nil
}

// Validate asks the server whether the current expression parses. An
// invalid expression is not an error: the verdict is in the response and
// its message is also stored as the state error.
func (c *calculatorService) Validate(ctx context.Context) (*models.ValidateResponse, error) {
	expr := c.State().Expression
	if strings.TrimSpace(expr) == "" {
		c.update(func(s *CalculatorState) { s.Error = common.ErrEmptyExpression.Error() })
		return nil, common.ErrEmptyExpression
	}

	c.begin()
	resp, err := c.client.ValidateExpression(ctx, expr)
	if err != nil {
		c.update(func(s *CalculatorState) {
			s.IsLoading = false
			s.Error = errorMessage(err, msgValidationFailed)
		})
		return nil, fmt.Errorf("validate: %w", err)
	}

	c.update(func(s *CalculatorState) {
		s.IsLoading = false
		if !resp.Valid {
			s.Error = resp.Message
		}
	})
	return resp, nil
}

func (c *calculatorService) Clear() {
	c.update(func(s *CalculatorState) {
		s.Expression = ""
		s.Result = nil
		s.Error = ""
		s.LastCalculationID = ""
		s.TokensUsed = nil
	})
}

// ToggleAI flips AI input mode and returns the new value.
func (c *calculatorService) ToggleAI() bool {
	var on bool
	c.update(func(s *CalculatorState) {
		s.UseAI = !s.UseAI
		on = s.UseAI
	})
	return on
}

func (c *calculatorService) ClearError() {
	c.update(func(s *CalculatorState) { s.Error = "" })
}
