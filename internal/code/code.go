// Package code generates short one-time codes for email verification and
// password reset flows.
package code

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Codes are typed by hand from an email, so keep them short and drop
	// lookalike characters (0/O, 1/I/l).
	alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"
	length   = 5
)

// Generate creates a new one-time code.
// Returns an error if the system has insufficient entropy.
func Generate() (string, error) {
	c, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return c, nil
}
