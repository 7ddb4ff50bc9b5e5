package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Session binds a bearer token to the client so the workflow can act as the user
type Session struct {
	client *Client
	token  string
}

func (c *Client) Session(token string) *Session {
	return &Session{client: c, token: token}
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) Balance(ctx context.Context) (decimal.Decimal, error) {
	return s.client.Balance(ctx, s.token)
}
