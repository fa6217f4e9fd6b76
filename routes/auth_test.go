package routes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

// Register maps a unique-index violation on insert to a 409 instead of
// relying on a racy lookup-then-insert check. This pins the driver error
// shape that mapping depends on.
func TestDuplicateEmailErrorClassification(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error collection: users index: email_1"}},
	}
	assert.True(t, mongo.IsDuplicateKeyError(dup))

	bulkDup := mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Code: 11000}}},
	}
	assert.True(t, mongo.IsDuplicateKeyError(bulkDup))

	assert.False(t, mongo.IsDuplicateKeyError(errors.New("connection reset")))
	assert.False(t, mongo.IsDuplicateKeyError(mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 121, Message: "document failed validation"}},
	}))
}
