package metainfo

import (
	"bytes"
	"crypto/sha1"
	"fmt"

	"github.com/jackpal/bencode-go"

	"github.com/vaguilera/acorntorrent/bvalue"
)

// ComputeHash returns the SHA-1 digest of the canonical bencoding of the
// info dictionary. Trackers and peers identify the torrent by this value,
// so the encoding must be byte-for-byte reproducible: the dictionary is
// rebuilt from the typed fields and Marshal emits its keys sorted.
func (i *Info) ComputeHash() ([20]byte, error) {
	var buf bytes.Buffer
	if err := bencode.Marshal(&buf, i.bencodeDict()); err != nil {
		return [20]byte{}, fmt.Errorf("encode info dictionary: %w", err)
	}
	return sha1.Sum(buf.Bytes()), nil
}

// bencodeDict rebuilds the generic value form of the info dictionary with
// exactly the keys that participate in the info-hash. Optional keys are
// emitted only when set, private as integer 0 or 1.
func (i *Info) bencodeDict() map[string]interface{} {
	dict := map[string]interface{}{
		"name":         i.Name,
		"piece length": i.PieceLength,
		"pieces":       string(i.Pieces),
	}
	if i.Length != nil {
		dict["length"] = *i.Length
	}
	if i.Files != nil {
		files := make([]interface{}, len(i.Files))
		for n, f := range i.Files {
			path := make([]interface{}, len(f.Path))
			for m, p := range f.Path {
				path[m] = p
			}
			files[n] = map[string]interface{}{
				"length": f.Length,
				"path":   path,
			}
		}
		dict["files"] = files
	}
	if i.Private != nil {
		var private int64
		if *i.Private {
			private = 1
		}
		dict["private"] = private
	}
	if i.Source != nil {
		dict["source"] = *i.Source
	}
	return dict
}

func decodeInfo(dict map[string]interface{}) (Info, error) {
	var info Info

	var err error
	if info.Name, err = bvalue.RequiredString(dict, "name"); err != nil {
		return info, err
	}
	if info.PieceLength, err = bvalue.RequiredInt(dict, "piece length"); err != nil {
		return info, err
	}
	if info.PieceLength < 0 {
		return info, bvalue.OutOfRange("piece length")
	}
	if info.Pieces, err = bvalue.RequiredBytes(dict, "pieces"); err != nil {
		return info, err
	}

	// private travels as integer 0 or 1 on the wire.
	private, ok, err := bvalue.OptionalInt(dict, "private")
	if err != nil {
		return info, err
	}
	if ok {
		b := private != 0
		info.Private = &b
	}

	if info.Source, err = optionalStringPtr(dict, "source"); err != nil {
		return info, err
	}

	length, hasLength, err := bvalue.OptionalInt(dict, "length")
	if err != nil {
		return info, err
	}
	_, hasFiles := dict["files"]
	if hasLength == hasFiles {
		return info, bvalue.Malformed("info must contain exactly one of length or files")
	}
	if hasLength {
		if length < 0 {
			return info, bvalue.OutOfRange("length")
		}
		info.Length = &length
		return info, nil
	}

	info.Files, err = decodeFiles(dict)
	return info, err
}

func decodeFiles(dict map[string]interface{}) ([]FileEntry, error) {
	list, err := bvalue.RequiredList(dict, "files")
	if err != nil {
		return nil, err
	}
	files := make([]FileEntry, 0, len(list))
	for _, v := range list {
		fdict, ok := v.(map[string]interface{})
		if !ok {
			return nil, bvalue.WrongType("files", "list of dictionaries")
		}
		f, err := decodeFileEntry(fdict)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func decodeFileEntry(dict map[string]interface{}) (FileEntry, error) {
	var f FileEntry

	var err error
	if f.Length, err = bvalue.RequiredInt(dict, "length"); err != nil {
		return f, err
	}
	if f.Length < 0 {
		return f, bvalue.OutOfRange("length")
	}

	path, err := bvalue.RequiredList(dict, "path")
	if err != nil {
		return f, err
	}
	f.Path, err = bvalue.Strings(path, "path")
	return f, err
}
