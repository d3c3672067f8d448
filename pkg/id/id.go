// Package id generates sortable unique identifiers.
package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a new ULID string, lexicographically sortable by creation time.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
