// Package torrent binds a decoded metainfo document to the identity a
// client presents to trackers.
package torrent

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vaguilera/acorntorrent/metainfo"
)

// clientPrefix identifies this client in Azureus-style peer ids.
const clientPrefix = "-AC0001-"

// Torrent is one torrent session: the metainfo plus the identifiers and
// transfer counters every announce is built from.
type Torrent struct {
	Metainfo *metainfo.Metainfo

	// SHA-1 of the canonical info dictionary, computed once.
	InfoHash        [20]byte
	EncodedInfoHash string

	PeerID        [20]byte
	EncodedPeerID string

	Uploaded   int64
	Downloaded int64
	Left       int64
}

// New derives the session identifiers from mi. A fresh session has
// downloaded nothing, so Left starts at the full payload size.
func New(mi *metainfo.Metainfo) (*Torrent, error) {
	hash, err := mi.Info.ComputeHash()
	if err != nil {
		return nil, err
	}

	t := &Torrent{
		Metainfo:        mi,
		InfoHash:        hash,
		EncodedInfoHash: percentEncode(hash[:]),
		PeerID:          newPeerID(),
		Left:            mi.Info.TotalSizeBytes(),
	}
	t.EncodedPeerID = percentEncode(t.PeerID[:])
	return t, nil
}

// newPeerID fills the 12 bytes after the client prefix with random uuid
// bytes.
func newPeerID() [20]byte {
	var id [20]byte
	copy(id[:], clientPrefix)
	u := uuid.New()
	copy(id[len(clientPrefix):], u[:])
	return id
}

const upperhex = "0123456789ABCDEF"

// percentEncode escapes every byte outside [A-Za-z0-9], the form trackers
// expect for raw hash and peer-id bytes.
func percentEncode(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 3)
	for _, c := range data {
		if alphanumeric(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func alphanumeric(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
