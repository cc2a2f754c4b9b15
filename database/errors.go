package database

import (
	"fmt"

	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// TranslateError maps driver errors onto the application's error kinds.
// Anything unrecognised is wrapped and surfaces as an internal error.
func TranslateError(err error, what, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.NotFoundf("%s %q", what, id)
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.AlreadyExistsf("%s %q", what, id)
	}
	return fmt.Errorf("%s %s: %w", what, id, err)
}
