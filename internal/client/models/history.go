package models

// CalculationType tags how a history record was produced.
type CalculationType string

const (
	CalculationBasic      CalculationType = "basic"
	CalculationScientific CalculationType = "scientific"
	CalculationAI         CalculationType = "ai"
)

func (c CalculationType) Valid() bool {
	switch c {
	case CalculationBasic, CalculationScientific, CalculationAI:
		return true
	}
	return false
}

type HistoryItem struct {
	ID              string          `json:"id"`
	Expression      string          `json:"expression"`
	Result          *string         `json:"result"`
	CalculationType CalculationType `json:"calculation_type"`
	CreatedAt       Timestamp       `json:"created_at"`
}

// ResultText returns the stored result or "-" when the server kept none.
func (h HistoryItem) ResultText() string {
	if h.Result == nil || *h.Result == "" {
		return "-"
	}
	return *h.Result
}

// HistoryPage is one page of GET /history. Page numbers start at 1.
type HistoryPage struct {
	Items      []HistoryItem `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

func (p *HistoryPage) HasNext() bool {
	return p != nil && p.Page < p.TotalPages
}

func (p *HistoryPage) HasPrev() bool {
	return p != nil && p.Page > 1
}

type ClearHistoryResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

type AIUsageStats struct {
	TotalQueries int `json:"total_queries"`
	TotalTokens  int `json:"total_tokens"`
}
