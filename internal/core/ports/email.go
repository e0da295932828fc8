package ports

import (
	"context"
)

// EmailService sends transactional mail.
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, email, userName string) error
}
