package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a contact form submission. Records are never edited.
type Feedback struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category          FeedbackCategory   `bson:"type" json:"type"`
	ContentTitle      string             `bson:"content_title" json:"content_title"`
	Message           string             `bson:"message" json:"message"`
	Email             string             `bson:"email,omitempty" json:"email,omitempty"`
	ReportedContentID string             `bson:"reported_content_id,omitempty" json:"reported_content_id,omitempty"`
	CreatedAt         time.Time          `bson:"timestamp" json:"timestamp"`
}

func (f *Feedback) IDHex() string {
	return f.ID.Hex()
}
