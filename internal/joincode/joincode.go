// Package joincode issues the short shareable codes that grant access to a
// study group. A code is 8 uppercase hexadecimal characters drawn from
// crypto/rand (4 random bytes), giving a codespace of 16^8 ≈ 4.3 billion, so
// collisions are vanishingly rare at realistic group counts. Uniqueness is
// still verified against the store through a caller-supplied check, with a
// bounded number of attempts as a defensive cap.
package joincode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// Length is the number of characters in an issued code.
const Length = 8

// maxAttempts bounds how many candidate codes Issue will try before giving up.
const maxAttempts = 10

// ErrExhausted is returned when every attempted candidate collided with an
// existing code. Callers must treat this as a server-side failure of the
// whole group-creation request; a group is never created without a code.
var ErrExhausted = errors.New("joincode: could not generate a unique code")

// ExistsFunc reports whether a candidate code is already taken. It must check
// all groups, active and inactive — codes are never reused, even after a
// group is deactivated.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Issue generates a fresh code and verifies it is unused via exists. It tries
// up to 10 candidates, returning ErrExhausted when all collide. Errors from
// exists abort immediately and are returned as-is.
func Issue(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code, err := generate()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}

// generate renders 4 random bytes as 8 uppercase hex characters.
func generate() (string, error) {
	var buf [Length / 2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("joincode: reading random bytes: %w", err)
	}
	return fmt.Sprintf("%X", buf[:]), nil
}
