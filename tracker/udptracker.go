package tracker

import (
	"encoding/binary"
	"fmt"
	"log"
	"math/rand"
	"net"
	"time"

	"github.com/vaguilera/acorntorrent/torrent"
)

const udpProtocolID = 0x41727101980

const (
	udpActionConnect  = 0
	udpActionAnnounce = 1
	udpActionError    = 3
)

type connectPacket struct {
	ConnectionID  uint64
	Action        uint32
	TransactionID uint32
}

type announceRequest struct {
	ConnectionID  uint64
	Action        uint32
	TransactionID uint32
	InfoHash      [20]byte
	PeerID        [20]byte
	Downloaded    uint64
	Left          uint64
	Uploaded      uint64
	Event         uint32
	IP            uint32
	Key           uint32
	NumWant       int32
	Port          uint16
}

// UDPTracker announces over the UDP tracker protocol. Connect must be
// called before Announce to obtain a connection id.
type UDPTracker struct {
	Host string
	// URL path of the announce endpoint, sent as a BEP 41 option since
	// the fixed announce packet has no field for it.
	Path string

	conn         *net.UDPConn
	connectionID uint64
}

func (t *UDPTracker) Connect() error {
	addr, err := net.ResolveUDPAddr("udp4", t.Host)
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return err
	}
	t.conn = conn

	log.Printf("Connecting to UDP tracker %s (%s)", t.Host, conn.RemoteAddr())

	req := &connectPacket{
		ConnectionID:  udpProtocolID,
		Action:        udpActionConnect,
		TransactionID: rand.Uint32(),
	}
	buffer, err := t.roundTrip(req)
	if err != nil {
		return err
	}
	if len(buffer) < 16 {
		return fmt.Errorf("connect response too short: %d bytes", len(buffer))
	}
	if action := binary.BigEndian.Uint32(buffer[0:4]); action != udpActionConnect {
		return t.trackerError(buffer)
	}
	if txid := binary.BigEndian.Uint32(buffer[4:8]); txid != req.TransactionID {
		return fmt.Errorf("transaction id mismatch: sent %d, got %d", req.TransactionID, txid)
	}

	t.connectionID = binary.BigEndian.Uint64(buffer[8:16])
	return nil
}

func (t *UDPTracker) Announce(tor *torrent.Torrent, event AnnounceEvent, ns NetworkSettings) (*TrackerResponse, error) {
	req := &announceRequest{
		ConnectionID:  t.connectionID,
		Action:        udpActionAnnounce,
		TransactionID: rand.Uint32(),
		InfoHash:      tor.InfoHash,
		PeerID:        tor.PeerID,
		Downloaded:    uint64(tor.Downloaded),
		Left:          uint64(tor.Left),
		Uploaded:      uint64(tor.Uploaded),
		// The wire codes match the AnnounceEvent values.
		Event:   uint32(event),
		Key:     rand.Uint32(),
		NumWant: numWant(ns),
		Port:    ns.Port,
	}

	buffer, err := t.roundTrip(req, urlData(t.Path)...)
	if err != nil {
		return nil, err
	}
	if len(buffer) < 20 {
		return nil, fmt.Errorf("announce response too short: %d bytes", len(buffer))
	}
	if action := binary.BigEndian.Uint32(buffer[0:4]); action != udpActionAnnounce {
		return nil, t.trackerError(buffer)
	}
	if txid := binary.BigEndian.Uint32(buffer[4:8]); txid != req.TransactionID {
		return nil, fmt.Errorf("transaction id mismatch: sent %d, got %d", req.TransactionID, txid)
	}

	peers, err := parseCompactIPv4(buffer[20:])
	if err != nil {
		return nil, err
	}
	leechers := int64(binary.BigEndian.Uint32(buffer[12:16]))
	seeders := int64(binary.BigEndian.Uint32(buffer[16:20]))

	log.Printf("Tracker answered with %d peers", len(peers))

	return &TrackerResponse{
		Interval:   int64(binary.BigEndian.Uint32(buffer[8:12])),
		Complete:   &seeders,
		Incomplete: &leechers,
		Peers:      peers,
	}, nil
}

func (t *UDPTracker) roundTrip(message interface{}, options ...byte) ([]byte, error) {
	packet, err := StructToBuffer(message)
	if err != nil {
		return nil, err
	}
	packet = append(packet, options...)

	if _, err = t.conn.Write(packet); err != nil {
		return nil, err
	}

	t.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buffer := make([]byte, 2048)
	n, _, err := t.conn.ReadFromUDP(buffer)
	if err != nil {
		return nil, err
	}
	return buffer[:n], nil
}

func (t *UDPTracker) trackerError(buffer []byte) error {
	if binary.BigEndian.Uint32(buffer[0:4]) == udpActionError && len(buffer) > 8 {
		return fmt.Errorf("%w: %s", ErrTrackerFailure, buffer[8:])
	}
	return fmt.Errorf("unexpected tracker action %d", binary.BigEndian.Uint32(buffer[0:4]))
}

// urlData builds the BEP 41 option chain carrying the announce path.
func urlData(path string) []byte {
	if path == "" || len(path) > 255 {
		return nil
	}
	opts := make([]byte, 0, len(path)+2)
	opts = append(opts, 0x2, byte(len(path)))
	return append(opts, path...)
}

func numWant(ns NetworkSettings) int32 {
	if ns.NumWant > 0 {
		return int32(ns.NumWant)
	}
	return -1
}
