package metainfo

// Metainfo is the typed form of a .torrent document.
type Metainfo struct {
	Announce string
	// Tracker tiers from BEP 12. nil when the document carries no
	// announce-list key, as opposed to an empty one.
	AnnounceList [][]string
	Comment      *string
	CreatedBy    *string
	// Seconds since the epoch.
	CreationDate *int64
	// Only ever UTF-8; other declared encodings are rejected at decode
	// time.
	Encoding *string
	Info     Info
}

// Info is the hashed portion of the metainfo. Exactly one of Length and
// Files is set after a successful decode: Length for single-file
// torrents, Files for multi-file ones.
type Info struct {
	Name        string
	PieceLength int64
	// Concatenated 20-byte SHA-1 piece hashes, kept raw.
	Pieces  []byte
	Private *bool
	Source  *string
	Length  *int64
	Files   []FileEntry
}

// FileEntry is one payload file of a multi-file torrent.
type FileEntry struct {
	Length int64
	// Path components relative to the torrent root, last one the file
	// name.
	Path []string
}

// TotalPieceCount returns the number of complete 20-byte hashes in Pieces.
func (i *Info) TotalPieceCount() int64 {
	return int64(len(i.Pieces) / 20)
}

// TotalPieceSizeBytes returns the size covered by full pieces.
func (i *Info) TotalPieceSizeBytes() int64 {
	return i.PieceLength * i.TotalPieceCount()
}

// TotalSizeBytes returns the declared payload size: the single file length
// or the sum over all file entries.
func (i *Info) TotalSizeBytes() int64 {
	if i.Files != nil {
		var total int64
		for _, f := range i.Files {
			total += f.Length
		}
		return total
	}
	if i.Length != nil {
		return *i.Length
	}
	return 0
}
