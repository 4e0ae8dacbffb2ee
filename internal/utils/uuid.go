package utils

import (
	"github.com/google/uuid"
)

// maxCorrelationIDLength bounds client supplied request identifiers
const maxCorrelationIDLength = 128

// GenerateUUID generates a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// NormalizeCorrelationID returns id when it is usable as a correlation ID,
// otherwise a freshly generated UUID.
func NormalizeCorrelationID(id string) string {
	if id == "" || len(id) > maxCorrelationIDLength {
		return GenerateUUID()
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < 0x21 || c > 0x7e {
			return GenerateUUID()
		}
	}
	return id
}
