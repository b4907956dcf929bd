package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// IsExclusionViolation detects a Postgres exclusion-constraint violation
// (SQLSTATE 23P01). It is the authoritative "slot taken" signal; callers
// translate it to a domain overlap error and never retry it.
func IsExclusionViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "23P01") {
		return true
	}
	return strings.Contains(msg, "conflicting key value violates exclusion constraint")
}

// IsSerializationFailure detects transient transaction conflicts:
// serialization failures (40001) and deadlock victims (40P01). These are
// the only database errors the services retry.
func IsSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "40001") || strings.Contains(msg, "40P01") {
		return true
	}
	if strings.Contains(msg, "could not serialize access") {
		return true
	}
	return strings.Contains(msg, "deadlock detected")
}
