// path: controllers/controllers.go
package controllers

import (
	"context"

	"go.uber.org/zap"

	"parkwatch/alerts"
	"parkwatch/database"
	"parkwatch/models"
)

// Store interfaces are declared here, at the consumer, so handlers can be
// exercised against fakes. The mongo-backed implementations live in database.

type SightingStore interface {
	Insert(ctx context.Context, doc models.Sighting) (models.Sighting, error)
	List(ctx context.Context, f database.SightingFilter) ([]models.Sighting, string, error)
}

type EmailStore interface {
	Insert(ctx context.Context, email string) (models.EmailRegistration, error)
	ListEmails(ctx context.Context) ([]models.EmailRegistration, error)
}

type PhoneStore interface {
	Insert(ctx context.Context, number string) (models.PhoneRegistration, error)
	ListNumbers(ctx context.Context) ([]models.PhoneRegistration, error)
}

// FireNotifier receives the fire-reported signal from the submission path.
type FireNotifier interface {
	Notify()
}

// Broadcaster runs one full fan-out, for the explicit admin trigger.
type Broadcaster interface {
	BroadcastFireAlert(ctx context.Context) (alerts.Summary, error)
}

// TextSender is the SMS gateway adapter.
type TextSender interface {
	Send(ctx context.Context, number, message, carrierKey, region string) error
}

// Handlers holds every dependency the HTTP surface needs. Built once in main
// and registered onto the fiber app.
type Handlers struct {
	Sightings SightingStore
	Emails    EmailStore
	Phones    PhoneStore
	Fire      FireNotifier
	Broadcast Broadcaster
	Texts     TextSender
	Log       *zap.Logger
	UploadDir string
}
