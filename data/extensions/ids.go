package extensions

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

const objectIDLength = 24

var objectIDCounter atomic.Uint32

// NewObjectID returns a 24 character hex identifier, 4 bytes of unix seconds
// followed by 5 random bytes and a 3 byte counter. Ids sort by creation second.
func NewObjectID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	_, _ = rand.Read(b[4:9])

	c := objectIDCounter.Add(1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)

	return hex.EncodeToString(b[:])
}

// IsObjectID reports whether id has the shape produced by NewObjectID
func IsObjectID(id string) bool {
	if len(id) != objectIDLength {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
