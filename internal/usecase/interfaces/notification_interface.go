package interfaces

import (
	"context"

	"billing_reconciler/internal/domain/entities"
)

//go:generate mockgen -source=notification_interface.go -destination=mocks/notification_interface_mock.go -package=mocks

// IEmailOutbox hands email and admin intents to the mail pipeline. Rendering
// and delivery happen elsewhere.
type IEmailOutbox interface {
	SendEmail(ctx context.Context, intent entities.EmailIntent) error
	SendAdmin(ctx context.Context, intent entities.AdminIntent) error
}

// IRealtimePublisher pushes a notice to the sessions of one user.
type IRealtimePublisher interface {
	Publish(ctx context.Context, intent entities.RealtimeIntent) error
}
