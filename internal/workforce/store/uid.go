package store

import (
	"math/rand"
	"strconv"
	"time"
)

const uidSuffixLen = 6

var uidAlphabet = []byte("0123456789abcdefghijklmnopqrstuvwxyz")

// NewID generates an entity identifier: prefix, base36 millisecond
// timestamp, 6 random base36 characters. The time component keeps ids
// roughly sortable by creation; the suffix makes collisions overwhelmingly
// unlikely. Not meant to be unguessable.
func NewID(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	b := make([]byte, uidSuffixLen)
	for i := range b {
		b[i] = uidAlphabet[rand.Intn(len(uidAlphabet))]
	}
	return prefix + ts + string(b)
}
