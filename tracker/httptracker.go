package tracker

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/vaguilera/acorntorrent/torrent"
)

// Announce performs one HTTP announce against the torrent's tracker and
// decodes the reply. Transport failures and non-200 answers are retried
// with exponential backoff; a reply that decodes to a failure reason or
// malformed body is returned immediately.
func Announce(client *http.Client, t *torrent.Torrent, event AnnounceEvent, ns NetworkSettings) (*TrackerResponse, error) {
	u, err := announceURL(t, event, ns)
	if err != nil {
		return nil, err
	}

	var resp *TrackerResponse
	operation := func() error {
		body, err := fetch(client, u)
		if err != nil {
			return err
		}
		decoded, err := DecodeResponse(body)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp = decoded
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	log.Printf("Tracker answered with %d peers", len(resp.Peers))
	return resp, nil
}

// announceURL splices the pre-encoded info-hash and peer-id into the query
// by hand. url.Values would escape the raw bytes again with a different
// alphabet than trackers expect.
func announceURL(t *torrent.Torrent, event AnnounceEvent, ns NetworkSettings) (string, error) {
	base, err := url.Parse(t.Metainfo.Announce)
	if err != nil {
		return "", fmt.Errorf("announce url: %w", err)
	}

	params := url.Values{}
	params.Set("port", strconv.Itoa(int(ns.Port)))
	params.Set("uploaded", strconv.FormatInt(t.Uploaded, 10))
	params.Set("downloaded", strconv.FormatInt(t.Downloaded, 10))
	params.Set("left", strconv.FormatInt(t.Left, 10))
	params.Set("compact", "1")
	if ns.IP != "" {
		params.Set("ip", ns.IP)
	}
	if ns.NumWant > 0 {
		params.Set("numwant", strconv.Itoa(ns.NumWant))
	}
	if event != EventNone {
		params.Set("event", event.String())
	}

	query := "info_hash=" + t.EncodedInfoHash +
		"&peer_id=" + t.EncodedPeerID +
		"&" + params.Encode()
	if base.RawQuery != "" {
		base.RawQuery += "&" + query
	} else {
		base.RawQuery = query
	}
	return base.String(), nil
}

func fetch(client *http.Client, u string) ([]byte, error) {
	resp, err := client.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracker answered %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
