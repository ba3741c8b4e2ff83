// Package codes issues the verification codes attached to a document request.
package codes

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	// UniquePrefix starts every sender-side code.
	UniquePrefix = "DOC"
	// UniqueLength is the number of characters following UniquePrefix.
	UniqueLength = 6
	// DeliveryLength is the number of digits in a delivery code.
	DeliveryLength = 6
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"
)

// Generator draws codes from a random source.
// Uniqueness is only required per request, so no collision check is made.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorFrom returns a Generator reading from r.
// r must never run dry; a failing reader makes code generation panic.
func NewGeneratorFrom(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// UniqueCode returns "DOC" followed by 6 uppercase alphanumerics.
func (g *Generator) UniqueCode() string {
	return UniquePrefix + g.pick(alphanumeric, UniqueLength)
}

// DeliveryCode returns 6 decimal digits. Leading zeros are kept.
func (g *Generator) DeliveryCode() string {
	return g.pick(digits, DeliveryLength)
}

// pick samples n characters from alphabet, rejecting bytes that would bias the modulo.
func (g *Generator) pick(alphabet string, n int) string {
	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for len(out) < n {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			panic(fmt.Sprintf("codes: read random source: %v", err))
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}

// IsUniqueCode reports whether s is shaped like a sender-side code.
func IsUniqueCode(s string) bool {
	rest, ok := strings.CutPrefix(s, UniquePrefix)
	return ok && len(rest) == UniqueLength && only(rest, alphanumeric)
}

// IsDeliveryCode reports whether s is shaped like a delivery code.
func IsDeliveryCode(s string) bool {
	return len(s) == DeliveryLength && only(s, digits)
}

func only(s, alphabet string) bool {
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}
