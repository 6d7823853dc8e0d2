package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/tarekmechtaoui-svg/issaqadmin3/pkg/errors"
)

const sqlStateUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure on
// postgres or sqlite. When constraint is non-empty the error must mention it.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	matched := pkgerrors.PGCode(err) == sqlStateUniqueViolation ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !matched {
		return false
	}
	if constraint == "" {
		return true
	}
	dump := pkgerrors.Dump(err)
	return dump.PGConstraint == constraint || strings.Contains(msg, constraint)
}

// IsNotFound reports whether err is gorm's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
