package tracker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/vaguilera/acorntorrent/bvalue"
)

var (
	// ErrTrackerFailure wraps the failure reason a tracker returns in
	// place of a peer list.
	ErrTrackerFailure = errors.New("tracker returned failure")
	// ErrInvalidIP reports a peer address that does not parse.
	ErrInvalidIP = errors.New("invalid peer address")
)

// CompactLengthError reports a compact peer blob whose length is not a
// multiple of its fixed record size.
type CompactLengthError struct {
	RecordSize int
	Actual     int
}

func (e *CompactLengthError) Error() string {
	return fmt.Sprintf("compact peer data length %d is not a multiple of %d",
		e.Actual, e.RecordSize)
}

// TrackerResponse is a decoded announce response.
type TrackerResponse struct {
	// Seconds the client should wait before reannouncing.
	Interval int64
	// Seeder and leecher counts, absent on many trackers.
	Complete   *int64
	Incomplete *int64
	// Peers from the peers key followed by any peers6 entries, in wire
	// order within each group.
	Peers []Peer
}

// DecodeResponse parses the bencoded body of an announce response. The
// peers key may hold either a list of peer dictionaries or a compact
// 6-byte-per-peer blob; IPv6 peers arrive separately in peers6 as 18-byte
// records.
func DecodeResponse(data []byte) (*TrackerResponse, error) {
	v, err := bvalue.DecodeOne(data)
	if err != nil {
		return nil, fmt.Errorf("parse tracker response: %w", err)
	}
	dict, err := bvalue.Dict(v, "tracker response")
	if err != nil {
		return nil, err
	}
	return decodeResponse(dict)
}

func decodeResponse(dict map[string]interface{}) (*TrackerResponse, error) {
	// A failure response carries a reason and nothing else of use.
	reason, ok, err := bvalue.OptionalString(dict, "failure reason")
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, fmt.Errorf("%w: %s", ErrTrackerFailure, reason)
	}

	resp := &TrackerResponse{}
	if resp.Interval, err = bvalue.RequiredInt(dict, "interval"); err != nil {
		return nil, err
	}
	if resp.Complete, err = optionalIntPtr(dict, "complete"); err != nil {
		return nil, err
	}
	if resp.Incomplete, err = optionalIntPtr(dict, "incomplete"); err != nil {
		return nil, err
	}

	if resp.Peers, err = decodePeers(dict); err != nil {
		return nil, err
	}

	if v, ok := dict["peers6"]; ok {
		blob, ok := v.(string)
		if !ok {
			return nil, bvalue.WrongType("peers6", "byte string")
		}
		peers6, err := parseCompactIPv6([]byte(blob))
		if err != nil {
			return nil, err
		}
		resp.Peers = append(resp.Peers, peers6...)
	}

	return resp, nil
}

func decodePeers(dict map[string]interface{}) ([]Peer, error) {
	v, ok := dict["peers"]
	if !ok {
		return nil, bvalue.Missing("peers")
	}
	switch val := v.(type) {
	case []interface{}:
		peers := make([]Peer, 0, len(val))
		for _, e := range val {
			pd, ok := e.(map[string]interface{})
			if !ok {
				return nil, bvalue.WrongType("peers", "list of dictionaries")
			}
			p, err := decodePeerDict(pd)
			if err != nil {
				return nil, err
			}
			peers = append(peers, p)
		}
		return peers, nil
	case string:
		return parseCompactIPv4([]byte(val))
	default:
		return nil, bvalue.WrongType("peers", "list or byte string")
	}
}

func decodePeerDict(dict map[string]interface{}) (Peer, error) {
	var p Peer

	ip, err := bvalue.RequiredString(dict, "ip")
	if err != nil {
		return p, err
	}
	if p.IP = net.ParseIP(ip); p.IP == nil {
		return p, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}
	if p.PeerID, err = bvalue.RequiredString(dict, "peer id"); err != nil {
		return p, err
	}

	port, err := bvalue.RequiredInt(dict, "port")
	if err != nil {
		return p, err
	}
	if port < 0 || port > 65535 {
		return p, bvalue.OutOfRange("port")
	}
	p.Port = uint16(port)
	return p, nil
}

// parseCompactIPv4 unpacks 6-byte records: 4 address bytes then a
// big-endian port.
func parseCompactIPv4(data []byte) ([]Peer, error) {
	if len(data)%6 != 0 {
		return nil, &CompactLengthError{RecordSize: 6, Actual: len(data)}
	}
	peers := make([]Peer, 0, len(data)/6)
	for i := 0; i < len(data); i += 6 {
		peers = append(peers, Peer{
			IP:   net.IPv4(data[i], data[i+1], data[i+2], data[i+3]),
			Port: binary.BigEndian.Uint16(data[i+4 : i+6]),
		})
	}
	return peers, nil
}

// parseCompactIPv6 unpacks 18-byte records: 16 address bytes then a
// big-endian port.
func parseCompactIPv6(data []byte) ([]Peer, error) {
	if len(data)%18 != 0 {
		return nil, &CompactLengthError{RecordSize: 18, Actual: len(data)}
	}
	peers := make([]Peer, 0, len(data)/18)
	for i := 0; i < len(data); i += 18 {
		ip := make(net.IP, net.IPv6len)
		copy(ip, data[i:i+16])
		peers = append(peers, Peer{
			IP:   ip,
			Port: binary.BigEndian.Uint16(data[i+16 : i+18]),
		})
	}
	return peers, nil
}

func optionalIntPtr(dict map[string]interface{}, key string) (*int64, error) {
	n, ok, err := bvalue.OptionalInt(dict, key)
	if err != nil || !ok {
		return nil, err
	}
	return &n, nil
}
