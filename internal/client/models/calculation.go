package models

type CalculateRequest struct {
	Expression string `json:"expression"`
}

type CalculateResponse struct {
	Expression    string  `json:"expression"`
	Result        float64 `json:"result"`
	CalculationID string  `json:"calculation_id"`
}

// ValidateResponse reports whether the server could parse an expression.
// Message carries the parser error when Valid is false.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type AICalculateRequest struct {
	Query string `json:"query"`
}

// AICalculateResponse echoes the natural-language query together with the
// expression the server extracted from it (Understood).
type AICalculateResponse struct {
	Query         string  `json:"query"`
	Understood    string  `json:"understood"`
	Result        float64 `json:"result"`
	CalculationID string  `json:"calculation_id"`
	TokensUsed    *int    `json:"tokens_used,omitempty"`
}
