package tracker

import (
	"bytes"
	"encoding/binary"
	"net"
)

// Peer is one swarm member reported by a tracker.
type Peer struct {
	IP net.IP
	// Empty for peers from the compact forms, which carry no id.
	PeerID string
	Port   uint16
}

// AnnounceEvent tells the tracker why the client is announcing. The zero
// value is the regular keep-alive announce.
type AnnounceEvent int32

const (
	EventNone AnnounceEvent = iota
	EventCompleted
	EventStarted
	EventStopped
)

var eventNames = []string{"", "completed", "started", "stopped"}

func (e AnnounceEvent) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return ""
	}
	return eventNames[e]
}

// NetworkSettings carries the client-side announce parameters that are not
// derived from the torrent itself.
type NetworkSettings struct {
	// Externally visible address, empty to let the tracker use the
	// request source.
	IP string
	// Port the client listens on.
	Port uint16
	// Maximum number of peers wanted, 0 for the tracker default.
	NumWant int
}

// StructToBuffer packs a fixed-size struct big-endian, the byte order of
// the UDP tracker wire format.
func StructToBuffer(st interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.BigEndian, st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
