package tracker

import (
	"bytes"
	"encoding/binary"
	"errors"
	"net"
	"testing"
)

func Test_structToBuffer(t *testing.T) {
	buf, err := StructToBuffer(&connectPacket{
		ConnectionID:  udpProtocolID,
		Action:        udpActionConnect,
		TransactionID: 0xAABBCCDD,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []byte{
		0x00, 0x00, 0x04, 0x17, 0x27, 0x10, 0x19, 0x80,
		0x00, 0x00, 0x00, 0x00,
		0xAA, 0xBB, 0xCC, 0xDD,
	}
	if !bytes.Equal(buf, expected) {
		t.Errorf("Expected %v, got %v", expected, buf)
	}
}

func Test_urlData(t *testing.T) {
	opts := urlData("/announce")
	expected := append([]byte{0x2, 9}, "/announce"...)
	if !bytes.Equal(opts, expected) {
		t.Errorf("Expected %v, got %v", expected, opts)
	}

	if urlData("") != nil {
		t.Error("Expected no option for an empty path")
	}
}

// fakeUDPTracker answers one connect and one announce on conn.
func fakeUDPTracker(t *testing.T, conn *net.UDPConn) {
	buf := make([]byte, 2048)

	n, addr, err := conn.ReadFromUDP(buf)
	if err != nil || n < 16 {
		t.Errorf("Expected connect packet, got %d bytes err=%v", n, err)
		return
	}
	if binary.BigEndian.Uint64(buf[0:8]) != udpProtocolID {
		t.Errorf("Expected protocol magic, got %x", buf[0:8])
	}
	txid := binary.BigEndian.Uint32(buf[12:16])

	reply := make([]byte, 16)
	binary.BigEndian.PutUint32(reply[0:4], udpActionConnect)
	binary.BigEndian.PutUint32(reply[4:8], txid)
	binary.BigEndian.PutUint64(reply[8:16], 0x1122334455667788)
	conn.WriteToUDP(reply, addr)

	n, addr, err = conn.ReadFromUDP(buf)
	if err != nil || n < 98 {
		t.Errorf("Expected announce packet, got %d bytes err=%v", n, err)
		return
	}
	if binary.BigEndian.Uint64(buf[0:8]) != 0x1122334455667788 {
		t.Error("Expected the issued connection id echoed back")
	}
	if binary.BigEndian.Uint32(buf[8:12]) != udpActionAnnounce {
		t.Errorf("Expected announce action, got %d", binary.BigEndian.Uint32(buf[8:12]))
	}
	if event := binary.BigEndian.Uint32(buf[80:84]); event != uint32(EventStarted) {
		t.Errorf("Expected started event, got %d", event)
	}
	if left := binary.BigEndian.Uint64(buf[64:72]); left != 1024 {
		t.Errorf("Expected 1024 bytes left, got %d", left)
	}
	if port := binary.BigEndian.Uint16(buf[96:98]); port != 6881 {
		t.Errorf("Expected port 6881, got %d", port)
	}
	if n != 98+2+len("/announce") {
		t.Errorf("Expected url option after the packet, got %d bytes", n)
	}
	txid = binary.BigEndian.Uint32(buf[12:16])

	reply = make([]byte, 32)
	binary.BigEndian.PutUint32(reply[0:4], udpActionAnnounce)
	binary.BigEndian.PutUint32(reply[4:8], txid)
	binary.BigEndian.PutUint32(reply[8:12], 1800) // interval
	binary.BigEndian.PutUint32(reply[12:16], 3)   // leechers
	binary.BigEndian.PutUint32(reply[16:20], 5)   // seeders
	copy(reply[20:26], []byte{127, 0, 0, 1, 0x1a, 0xe1})
	copy(reply[26:32], []byte{127, 0, 0, 2, 0x1a, 0xe2})
	conn.WriteToUDP(reply, addr)
}

func Test_udpAnnounce(t *testing.T) {
	server, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer server.Close()
	go fakeUDPTracker(t, server)

	tr := &UDPTracker{Host: server.LocalAddr().String(), Path: "/announce"}
	if err := tr.Connect(); err != nil {
		t.Fatalf("Expected connect to succeed, got %v", err)
	}

	tor := testTorrent(t, "udp://"+server.LocalAddr().String()+"/announce")
	resp, err := tr.Announce(tor, EventStarted, NetworkSettings{Port: 6881, NumWant: 50})
	if err != nil {
		t.Fatalf("Expected announce to succeed, got %v", err)
	}

	if resp.Interval != 1800 {
		t.Errorf("Expected interval 1800, got %d", resp.Interval)
	}
	if resp.Complete == nil || *resp.Complete != 5 {
		t.Errorf("Expected 5 seeders, got %v", resp.Complete)
	}
	if resp.Incomplete == nil || *resp.Incomplete != 3 {
		t.Errorf("Expected 3 leechers, got %v", resp.Incomplete)
	}
	if len(resp.Peers) != 2 {
		t.Fatalf("Expected 2 peers, got %d", len(resp.Peers))
	}
	if resp.Peers[0].IP.String() != "127.0.0.1" || resp.Peers[0].Port != 6881 {
		t.Errorf("Expected 127.0.0.1:6881, got %s:%d", resp.Peers[0].IP, resp.Peers[0].Port)
	}
	if resp.Peers[1].IP.String() != "127.0.0.2" || resp.Peers[1].Port != 6882 {
		t.Errorf("Expected 127.0.0.2:6882, got %s:%d", resp.Peers[1].IP, resp.Peers[1].Port)
	}
}

func Test_udpTrackerError(t *testing.T) {
	server, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer server.Close()

	go func() {
		buf := make([]byte, 2048)
		n, addr, err := server.ReadFromUDP(buf)
		if err != nil || n < 16 {
			return
		}
		txid := binary.BigEndian.Uint32(buf[12:16])
		msg := "torrent not found"
		reply := make([]byte, 8+len(msg))
		binary.BigEndian.PutUint32(reply[0:4], udpActionError)
		binary.BigEndian.PutUint32(reply[4:8], txid)
		copy(reply[8:], msg)
		server.WriteToUDP(reply, addr)
	}()

	tr := &UDPTracker{Host: server.LocalAddr().String()}
	err = tr.Connect()
	if !errors.Is(err, ErrTrackerFailure) {
		t.Errorf("Expected tracker failure, got %v", err)
	}
}

func Test_announceRequestSize(t *testing.T) {
	buf, err := StructToBuffer(&announceRequest{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(buf) != 98 {
		t.Errorf("Expected 98 byte announce packet, got %d", len(buf))
	}
}
