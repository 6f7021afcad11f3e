package client

import (
	"context"

	"github.com/dmitrijs2005/smartcalc/internal/client/models"
)

// Client is the transport-agnostic contract of the calculator API.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)

	Calculate(ctx context.Context, expression string) (*models.CalculateResponse, error)
	ValidateExpression(ctx context.Context, expression string) (*models.ValidateResponse, error)
	AICalculate(ctx context.Context, query string) (*models.AICalculateResponse, error)

	History(ctx context.Context, page, pageSize int) (*models.HistoryPage, error)
	DeleteHistory(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) (*models.ClearHistoryResponse, error)
	AIUsageStats(ctx context.Context) (*models.AIUsageStats, error)

	Ping(ctx context.Context) error
}

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// UnauthorizedHandler is invoked once for every 401 answer to a request that
// carried a token, i.e. when the server rejected the stored session.
type UnauthorizedHandler func(ctx context.Context)
