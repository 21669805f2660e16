// Package tag generates the 6-character identifiers printed on unit stickers.
package tag

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Alphabet is the set every tag character is drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Length is the number of characters in a tag.
	Length = 6
	// MaxAttempts bounds EnsureUnique before it gives up.
	MaxAttempts = 20
)

// ErrTagSpaceExhausted is returned when MaxAttempts candidates all collided.
var ErrTagSpaceExhausted = errors.New("tag: no unique tag found")

var alphabetLen = big.NewInt(int64(len(Alphabet)))

// Generate draws Length characters uniformly from Alphabet.
func Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(fmt.Sprintf("tag: crypto/rand: %v", err))
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String()
}

// ExistsFunc reports whether a tag is already assigned.
type ExistsFunc func(ctx context.Context, tag string) (bool, error)

// EnsureUnique generates tags until exists reports one as free.
// Errors from exists are returned unchanged.
func EnsureUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	return claim(ctx, Generate, exists, nil)
}

// ErrCollision is returned (or wrapped) by an InsertFunc whose tag was taken
// between the exists check and the write.
var ErrCollision = errors.New("tag: collision")

// InsertFunc persists a record under tag.
type InsertFunc func(ctx context.Context, tag string) error

// Claim is EnsureUnique followed by insert. A collision reported by insert
// spends an attempt and a fresh tag is drawn.
func Claim(ctx context.Context, exists ExistsFunc, insert InsertFunc) (string, error) {
	return claim(ctx, Generate, exists, insert)
}

func ensureUnique(ctx context.Context, gen func() string, exists ExistsFunc) (string, error) {
	return claim(ctx, gen, exists, nil)
}

func claim(ctx context.Context, gen func() string, exists ExistsFunc, insert InsertFunc) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := gen()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if taken {
			continue
		}
		if insert == nil {
			return candidate, nil
		}
		err = insert(ctx, candidate)
		if errors.Is(err, ErrCollision) {
			continue
		}
		if err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", ErrTagSpaceExhausted
}

// Normalize upper-cases and trims a client-supplied tag.
func Normalize(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// Valid reports whether t is a well-formed, already-normalized tag.
func Valid(t string) bool {
	if len(t) != Length {
		return false
	}
	for i := 0; i < len(t); i++ {
		if strings.IndexByte(Alphabet, t[i]) < 0 {
			return false
		}
	}
	return true
}
