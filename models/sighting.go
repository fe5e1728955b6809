// path: models/sighting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaceholderImage is stored when a submission carries no image.
const PlaceholderImage = "https://via.placeholder.com/300?text=No+Photo"

// Sighting is a resident-submitted activity report shown on the park map.
type Sighting struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`

	// Image is either an external URL, a data URI, or a served /uploads path.
	Image string `bson:"image" json:"image"`

	Danger    int       `bson:"danger" json:"danger"`
	VisitDate time.Time `bson:"visit_date" json:"visit_date"`
	Latitude  float64   `bson:"latitude" json:"latitude"`
	Longitude float64   `bson:"longitude" json:"longitude"`
	Fire      bool      `bson:"fire" json:"fire"`

	// APIKey is the shared-secret string submitted with the report. It is a
	// convention gate only and is never echoed back in list responses.
	APIKey string `bson:"api_key" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SightingPayload is the JSON body for POST /api/logs.
// (Multipart branch reads fields from the form directly.)
type SightingPayload struct {
	APIKey      string  `json:"apiKey"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Danger      int     `json:"danger"`
	VisitDate   string  `json:"visitDate"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Fire        bool    `json:"fire"`
}
