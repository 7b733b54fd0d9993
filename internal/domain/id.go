package domain

import "github.com/google/uuid"

// NewID returns a fresh collection-unique id with a type prefix, e.g.
// "sale-5f3a…". Prefixes keep persisted payloads readable.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
