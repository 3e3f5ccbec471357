package mongo

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillcms/quill/internal/core/domain"
)

// duplicateFields lists the uniquely indexed fields in the order they are
// probed when mapping a duplicate-key error back to the offending field.
var duplicateFields = []string{"email", "username", "phone", "host", "slug", "name"}

// mapDuplicateKey turns a Mongo duplicate-key error into a
// domain.DuplicateFieldError naming the collided field, determined from the
// index name embedded in the server message. Non-duplicate errors pass
// through unchanged.
func mapDuplicateKey(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	for _, field := range duplicateFields {
		if strings.Contains(msg, field+"_1") {
			return &domain.DuplicateFieldError{Field: field}
		}
	}
	return &domain.DuplicateFieldError{Field: "field"}
}
