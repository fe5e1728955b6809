// path: database/registrations.go
package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"parkwatch/models"
)

// Emails wraps the "emails" collection.
type Emails struct {
	col *mongo.Collection
}

// Insert stores a new registration. A second insert of the same address
// returns ErrDuplicate via the collection's unique index.
func (e *Emails) Insert(ctx context.Context, email string) (models.EmailRegistration, error) {
	ictx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := models.EmailRegistration{Email: email}
	res, err := e.col.InsertOne(ictx, doc)
	if err != nil {
		return models.EmailRegistration{}, mapInsertErr("insert email", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc, nil
}

// ListEmails returns every registered address, unordered.
func (e *Emails) ListEmails(ctx context.Context) ([]models.EmailRegistration, error) {
	fctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := e.col.Find(fctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find emails: %w", err)
	}
	defer cur.Close(fctx)

	var out []models.EmailRegistration
	if err := cur.All(fctx, &out); err != nil {
		return nil, fmt.Errorf("decode emails: %w", err)
	}
	return out, nil
}

// Phones wraps the "phone" collection.
type Phones struct {
	col *mongo.Collection
}

func (p *Phones) Insert(ctx context.Context, number string) (models.PhoneRegistration, error) {
	ictx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := models.PhoneRegistration{Number: number}
	res, err := p.col.InsertOne(ictx, doc)
	if err != nil {
		return models.PhoneRegistration{}, mapInsertErr("insert phone", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc, nil
}

func (p *Phones) ListNumbers(ctx context.Context) ([]models.PhoneRegistration, error) {
	fctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := p.col.Find(fctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find phone numbers: %w", err)
	}
	defer cur.Close(fctx)

	var out []models.PhoneRegistration
	if err := cur.All(fctx, &out); err != nil {
		return nil, fmt.Errorf("decode phone numbers: %w", err)
	}
	return out, nil
}
