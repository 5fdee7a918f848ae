// Package sessionid generates sortable identifiers for practice
// sessions: UUIDv7 encoded as a 26-character Crockford base32 string.
// The embedded millisecond timestamp keeps log directories and review
// listings in creation order under a plain lexical sort.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random tail bytes. Tests inject a
// deterministic source; production uses crypto/rand.
type RandSource interface {
	Intn(n int) int
}

// Generator creates session IDs with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource means crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new session ID.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new session ID using the generator's RandSource.
func (g *Generator) Generate() string {
	return encodeBase32(g.uuidv7())
}

// uuidv7: 48-bit millisecond timestamp, then version and variant bits
// over random data.
func (g *Generator) uuidv7() [16]byte {
	var uuid [16]byte

	now := time.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		uuid[i] = byte(now >> (40 - 8*i))
	}

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.Intn(256))
		}
	} else if _, err := rand.Read(uuid[6:]); err != nil {
		panic("sessionid: crypto/rand failed: " + err.Error())
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80
	return uuid
}

// encodeBase32 packs the 128 bits into 26 base32 characters, 5 bits at
// a time, zero-padded at the tail.
func encodeBase32(data [16]byte) string {
	result := make([]byte, 26)
	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Validate checks that an ID is 26 valid base32 characters. The first
// character is capped at '7' so the value fits in 128 bits.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("session ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
