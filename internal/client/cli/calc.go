package cli

import (
	"context"
	"fmt"
)

// Calculate evaluates expr on the server and prints the result.
func (a *App) Calculate(ctx context.Context, expr string) error {
	a.calcService.SetExpression(expr)
	resp, err := a.calcService.Calculate(ctx)
	if err != nil {
		return a.report(err, a.calcService.State().Error)
	}
	printlnFn(fmt.Sprintf("%s = %s", resp.Expression, resultText(resp.Result)))
	return nil
}

// AICalculate sends a natural-language query and prints how the server
// understood it together with the result.
func (a *App) AICalculate(ctx context.Context, query string) error {
	resp, err := a.calcService.AICalculate(ctx, query)
	if err != nil {
		return a.report(err, a.calcService.State().Error)
	}
	printlnFn(mutedText("understood: ") + resp.Understood)
	printlnFn("= " + resultText(resp.Result))
	if resp.TokensUsed != nil {
		printlnFn(mutedText(fmt.Sprintf("tokens used: %d", *resp.TokensUsed)))
	}
	return nil
}

// Validate checks expr without evaluating it.
func (a *App) Validate(ctx context.Context, expr string) error {
	a.calcService.SetExpression(expr)
	resp, err := a.calcService.Validate(ctx)
	if err != nil {
		return a.report(err, a.calcService.State().Error)
	}
	if resp.Valid {
		printlnFn(okText("valid"))
		return nil
	}
	printlnFn(errText("invalid: " + resp.Message))
	return nil
}

// ToggleMode switches between expression and natural-language input.
func (a *App) ToggleMode(context.Context) error {
	if a.calcService.ToggleAI() {
		printlnFn("AI mode on: input lines are sent as natural-language queries")
	} else {
		printlnFn("AI mode off: input lines are evaluated as expressions")
	}
	return nil
}

// ClearCalc resets the calculator.
func (a *App) ClearCalc(context.Context) error {
	a.calcService.Clear()
	printlnFn("cleared")
	return nil
}

// ShowResult prints the last result kept by the calculator.
func (a *App) ShowResult(context.Context) error {
	st := a.calcService.State()
	if st.Result == nil {
		printlnFn(mutedText("no result yet"))
		return nil
	}
	printlnFn(fmt.Sprintf("%s = %s", st.Expression, resultText(*st.Result)))
	return nil
}

func resultText(f float64) string {
	return tuiResult(formatNumber(f))
}
