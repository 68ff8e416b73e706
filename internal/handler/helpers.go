package handler

import (
	"github.com/google/uuid"
)

// validID reports whether s is a UUID in canonical 36-character form
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
