package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vaguilera/acorntorrent/formatting"
	"github.com/vaguilera/acorntorrent/metainfo"
	"github.com/vaguilera/acorntorrent/torrent"
	"github.com/vaguilera/acorntorrent/tracker"
)

func printHelp() {
	fmt.Printf("AcornTorrent V0.1\nUsage:\n\tacorntorrent [flags] <torrentfile>\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)

	announce := flag.Bool("announce", false, "Announce to the tracker and list the returned peers")
	port := flag.Int("port", 6881, "Port reported to the tracker")
	numWant := flag.Int("numwant", 50, "Maximum number of peers requested from the tracker")
	flag.Parse()
	args := flag.Args()

	if len(args) != 1 {
		printHelp()
		os.Exit(2)
	}

	mi, err := metainfo.FromFile(args[0])
	if err != nil {
		log.Fatalf("Error while opening file: %s", err)
	}

	printGeneral(args[0], mi)
	printTrackers(mi)
	printFiles(&mi.Info)

	if *announce {
		runAnnounce(mi, uint16(*port), *numWant)
	}
}

func printGeneral(path string, mi *metainfo.Metainfo) {
	info := &mi.Info

	log.Printf("%s\n", filepath.Base(path))
	log.Printf("\nGENERAL\n")
	log.Printf("  Name: %s", info.Name)
	if hash, err := info.ComputeHash(); err == nil {
		log.Printf("  Hash: %x", hash)
	}
	if mi.CreatedBy != nil {
		log.Printf("  Created by: %s", *mi.CreatedBy)
	}
	if mi.CreationDate != nil {
		log.Printf("  Created on: %s", formatting.FormatLocalTime(*mi.CreationDate))
	}
	if mi.Comment != nil {
		log.Printf("  Comment: %s", *mi.Comment)
	}
	log.Printf("  Piece Count: %d", info.TotalPieceCount())
	log.Printf("  Piece Size: %s", formatting.FormatBytesIEC(uint64(info.PieceLength)))
	log.Printf("  Total Size: %s", formatting.FuzzyFormatBytesSI(uint64(info.TotalSizeBytes())))
	log.Printf("  Privacy: %s", privacy(info))
}

func privacy(info *metainfo.Info) string {
	if info.Private != nil && *info.Private {
		return "Private torrent"
	}
	return "Public torrent"
}

func printTrackers(mi *metainfo.Metainfo) {
	log.Printf("\nTRACKERS\n")
	if mi.AnnounceList == nil {
		log.Printf("  %s", mi.Announce)
		return
	}
	for tier, urls := range mi.AnnounceList {
		log.Printf("  Tier #%d", tier+1)
		for _, u := range urls {
			log.Printf("    %s", u)
		}
	}
}

func printFiles(info *metainfo.Info) {
	log.Printf("\nFILES\n")
	if info.Files == nil {
		size := uint64(info.TotalSizeBytes())
		log.Printf("  %s (%s)", info.Name, formatting.FuzzyFormatBytesSI(size))
		return
	}
	for _, f := range info.Files {
		path := filepath.Join(append([]string{info.Name}, f.Path...)...)
		log.Printf("  %s (%s)", path, formatting.FuzzyFormatBytesSI(uint64(f.Length)))
	}
}

func runAnnounce(mi *metainfo.Metainfo, port uint16, numWant int) {
	t, err := torrent.New(mi)
	if err != nil {
		log.Fatalf("Error preparing announce: %s", err)
	}

	ns := tracker.NetworkSettings{Port: port, NumWant: numWant}

	u, err := url.Parse(strings.TrimSpace(mi.Announce))
	if err != nil {
		log.Fatalf("Error parsing tracker url: %s", err)
	}

	var resp *tracker.TrackerResponse
	switch u.Scheme {
	case "udp":
		udp := &tracker.UDPTracker{Host: u.Host, Path: u.Path}
		if err = udp.Connect(); err == nil {
			resp, err = udp.Announce(t, tracker.EventStarted, ns)
		}
	default:
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err = tracker.Announce(client, t, tracker.EventStarted, ns)
	}
	if err != nil {
		log.Fatalf("Error announcing to tracker: %s", err)
	}

	log.Printf("\nPEERS (reannounce in %ds)\n", resp.Interval)
	if resp.Complete != nil && resp.Incomplete != nil {
		log.Printf("  %d seeders / %d leechers", *resp.Complete, *resp.Incomplete)
	}
	for _, p := range resp.Peers {
		log.Printf("  %s:%d", p.IP, p.Port)
	}
}
