package repositories

import (
	"context"
	"time"
)

// CodeStore holds short-lived auth artifacts: email verification codes and
// password reset tokens. Entries expire on their own; Delete exists so a
// consumed code cannot be replayed inside its window.
type CodeStore interface {
	SaveVerificationCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetVerificationCode(ctx context.Context, email string) (string, error)
	DeleteVerificationCode(ctx context.Context, email string) error

	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	GetResetToken(ctx context.Context, token string) (string, error)
	DeleteResetToken(ctx context.Context, token string) error
}
