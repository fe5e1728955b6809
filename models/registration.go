// path: models/registration.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// EmailRegistration is a contact opted in to fire-alert emails.
type EmailRegistration struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email string             `bson:"email" json:"email"`
}

// PhoneRegistration is a contact number stored for text alerts.
type PhoneRegistration struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number string             `bson:"number" json:"number"`
}
