package memory

import (
	"context"
	"time"
)

// TurnRecord is one committed user or assistant turn, archived after the
// in-session rolling window accepted it.
type TurnRecord struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	PIIRedacted bool      `json:"pii_redacted"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the durable transcript archive. Archiving is best-effort: the
// session loop logs store errors and moves on, it never fails a turn over
// them.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTurns(ctx context.Context, limit int) ([]TurnRecord, error)
	Close() error
}
