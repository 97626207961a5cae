// Package bvalue decodes bencoded documents into generic value trees and
// extracts typed fields from them. The jackpal decoder maps the four wire
// types to map[string]interface{}, []interface{}, int64 and string; the
// helpers here turn those loosely typed values into validated fields.
package bvalue

import (
	"bufio"
	"bytes"

	"github.com/jackpal/bencode-go"
)

// DecodeOne parses data as exactly one bencoded value. Any bytes left over
// after the value make the whole document invalid.
func DecodeOne(data []byte) (interface{}, error) {
	r := bytes.NewReader(data)
	br := bufio.NewReader(r)
	v, err := bencode.Decode(br)
	if err != nil {
		return nil, err
	}
	if br.Buffered()+r.Len() != 0 {
		return nil, ErrTrailingData
	}
	return v, nil
}

// Dict asserts that v is a bencode dictionary. context names the value in
// the error when it is anything else.
func Dict(v interface{}, context string) (map[string]interface{}, error) {
	d, ok := v.(map[string]interface{})
	if !ok {
		return nil, WrongType(context, "dictionary")
	}
	return d, nil
}
