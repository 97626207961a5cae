// Package metainfo decodes .torrent documents and computes their
// info-hash.
package metainfo

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/vaguilera/acorntorrent/bvalue"
)

// Decode parses data as a complete metainfo document. Unknown dictionary
// keys are ignored at every level; anything else wrong with the document
// is an error.
func Decode(data []byte) (*Metainfo, error) {
	v, err := bvalue.DecodeOne(data)
	if err != nil {
		return nil, fmt.Errorf("parse metainfo: %w", err)
	}
	dict, err := bvalue.Dict(v, "metainfo")
	if err != nil {
		return nil, err
	}
	return decodeMetainfo(dict)
}

// FromFile reads and decodes the .torrent file at path.
func FromFile(path string) (*Metainfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func decodeMetainfo(dict map[string]interface{}) (*Metainfo, error) {
	mi := &Metainfo{}

	var err error
	if mi.Announce, err = bvalue.RequiredString(dict, "announce"); err != nil {
		return nil, err
	}
	if mi.AnnounceList, err = decodeAnnounceList(dict); err != nil {
		return nil, err
	}
	if mi.Comment, err = optionalStringPtr(dict, "comment"); err != nil {
		return nil, err
	}
	if mi.CreatedBy, err = optionalStringPtr(dict, "created by"); err != nil {
		return nil, err
	}

	date, ok, err := bvalue.OptionalInt(dict, "creation date")
	if err != nil {
		return nil, err
	}
	if ok {
		mi.CreationDate = &date
	}

	if mi.Encoding, err = decodeEncoding(dict); err != nil {
		return nil, err
	}

	infoDict, err := bvalue.RequiredDict(dict, "info")
	if err != nil {
		return nil, err
	}
	if mi.Info, err = decodeInfo(infoDict); err != nil {
		return nil, err
	}

	return mi, nil
}

// decodeEncoding accepts only a declared UTF-8 encoding, in any casing.
// Filenames in other encodings cannot be represented faithfully by the
// string fields of this package.
func decodeEncoding(dict map[string]interface{}) (*string, error) {
	enc, ok, err := bvalue.OptionalString(dict, "encoding")
	if err != nil || !ok {
		return nil, err
	}
	if !strings.EqualFold(enc, "utf-8") {
		return nil, fmt.Errorf("%w %q", bvalue.ErrUnsupportedEncoding, enc)
	}
	return &enc, nil
}

func decodeAnnounceList(dict map[string]interface{}) ([][]string, error) {
	v, ok := dict["announce-list"]
	if !ok {
		return nil, nil
	}
	tiers, ok := v.([]interface{})
	if !ok {
		return nil, bvalue.Malformed("announce-list must be a list of tracker tiers")
	}
	out := make([][]string, 0, len(tiers))
	for _, t := range tiers {
		tier, ok := t.([]interface{})
		if !ok {
			return nil, bvalue.Malformed("announce-list tier must be a list of strings")
		}
		urls := make([]string, 0, len(tier))
		for _, u := range tier {
			s, ok := u.(string)
			if !ok {
				return nil, bvalue.Malformed("announce-list tier must be a list of strings")
			}
			if !utf8.ValidString(s) {
				return nil, bvalue.InvalidUTF8("announce-list")
			}
			urls = append(urls, s)
		}
		out = append(out, urls)
	}
	return out, nil
}

func optionalStringPtr(dict map[string]interface{}, key string) (*string, error) {
	s, ok, err := bvalue.OptionalString(dict, key)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}
