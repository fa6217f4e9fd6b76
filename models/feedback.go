package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a user rating of a generated answer.
type Feedback struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Query      string             `bson:"query" json:"query"`
	Response   string             `bson:"response" json:"response"`
	Rating     string             `bson:"rating" json:"rating"` // "thumbs_up" or "thumbs_down"
	Categories []string           `bson:"categories,omitempty" json:"categories,omitempty"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

type FeedbackRequest struct {
	Query      string   `json:"query" binding:"required"`
	Response   string   `json:"response" binding:"required"`
	Rating     string   `json:"rating" binding:"required"`
	Categories []string `json:"categories"`
	Comment    string   `json:"comment"`
}
