// Package trainerkey generates and normalizes the short codes trainers hand
// out to their students.
//
// A key is 8 symbols from an alphabet without the look-alike characters
// 0, 1, I and O. It is shown to humans as XXXX-YYYY and stored in that form.
package trainerkey

import (
	"crypto/rand"
	"strings"
)

const (
	// Alphabet holds the 32 symbols a generated key is drawn from.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// Length is the number of symbols in a complete key.
	Length = 8

	groupSize = 4
	separator = "-"
)

// Key is a normalized trainer key in both of its representations.
type Key struct {
	Raw     string // uppercase, no separator, at most Length symbols
	Display string // Raw split as XXXX-YYYY once it is longer than one group
}

// Complete reports whether the key has the full number of symbols.
// Anything shorter can never match an issued key.
func (k Key) Complete() bool {
	return len(k.Raw) == Length
}

// Variants returns the distinct forms worth sending to a lookup, raw first.
func (k Key) Variants() []string {
	if k.Raw == "" {
		return nil
	}
	if k.Display == k.Raw {
		return []string{k.Raw}
	}
	return []string{k.Raw, k.Display}
}

func (k Key) String() string {
	return k.Display
}

// Normalize turns whatever the user typed into a Key. It never fails:
// unexpected characters are dropped and extra symbols are cut off, so bad
// input simply yields a shorter (incomplete) key.
func Normalize(input string) Key {
	var b strings.Builder
	b.Grow(Length)
	for _, r := range strings.ToUpper(input) {
		if b.Len() == Length {
			break
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	raw := b.String()
	return Key{Raw: raw, Display: format(raw)}
}

func format(raw string) string {
	if len(raw) <= groupSize {
		return raw
	}
	return raw[:groupSize] + separator + raw[groupSize:]
}

// Generate returns a random key in display form. Uniqueness is not
// guaranteed here; the store's unique constraint decides that.
func Generate() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is broken.
		panic("trainerkey: reading random bytes: " + err.Error())
	}
	raw := make([]byte, Length)
	for i, b := range buf {
		// len(Alphabet) is a power of two, so masking keeps the draw uniform.
		raw[i] = Alphabet[int(b)&(len(Alphabet)-1)]
	}
	return format(string(raw))
}

// Valid reports whether s normalizes to a complete key made only of
// alphabet symbols.
func Valid(s string) bool {
	k := Normalize(s)
	if !k.Complete() {
		return false
	}
	for i := 0; i < len(k.Raw); i++ {
		if strings.IndexByte(Alphabet, k.Raw[i]) < 0 {
			return false
		}
	}
	return true
}
