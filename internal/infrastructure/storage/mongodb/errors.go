package mongodb

import (
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"
)

// E11000 messages name the violated index: "... index: <name> dup key: {...}".
var dupKeyIndexRe = regexp.MustCompile(`index: (\S+) dup key`)

// duplicateKeyIndex reports whether err is a duplicate key error and returns
// the name of the violated index, or "" when the server did not say.
func duplicateKeyIndex(err error) (string, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return "", false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if m := dupKeyIndexRe.FindStringSubmatch(e.Message); m != nil {
				return m[1], true
			}
		}
	}
	if m := dupKeyIndexRe.FindStringSubmatch(err.Error()); m != nil {
		return m[1], true
	}
	return "", true
}

// isDuplicateOn reports whether err is a duplicate key error on index.
func isDuplicateOn(err error, index string) bool {
	name, dup := duplicateKeyIndex(err)
	return dup && name == index
}
