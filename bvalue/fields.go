package bvalue

import "unicode/utf8"

// RequiredString returns the UTF-8 text at key. Absence, a non-string
// value and invalid UTF-8 are all decode failures.
func RequiredString(dict map[string]interface{}, key string) (string, error) {
	v, ok := dict[key]
	if !ok {
		return "", Missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", WrongType(key, "byte string")
	}
	if !utf8.ValidString(s) {
		return "", InvalidUTF8(key)
	}
	return s, nil
}

// OptionalString returns the UTF-8 text at key when present. An absent key
// or a value of another type yields ok=false without an error; a byte
// string that is not valid UTF-8 is still a failure.
func OptionalString(dict map[string]interface{}, key string) (string, bool, error) {
	v, ok := dict[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, nil
	}
	if !utf8.ValidString(s) {
		return "", false, InvalidUTF8(key)
	}
	return s, true, nil
}

// RequiredBytes returns the raw byte string at key with no text validation.
// Used for hashes and compact peer blobs.
func RequiredBytes(dict map[string]interface{}, key string) ([]byte, error) {
	v, ok := dict[key]
	if !ok {
		return nil, Missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return nil, WrongType(key, "byte string")
	}
	return []byte(s), nil
}

// RequiredInt returns the integer at key.
func RequiredInt(dict map[string]interface{}, key string) (int64, error) {
	v, ok := dict[key]
	if !ok {
		return 0, Missing(key)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, WrongType(key, "integer")
	}
	return n, nil
}

// OptionalInt returns the integer at key when present. Unlike
// OptionalString, a present value of the wrong type is a failure.
func OptionalInt(dict map[string]interface{}, key string) (int64, bool, error) {
	v, ok := dict[key]
	if !ok {
		return 0, false, nil
	}
	n, ok := v.(int64)
	if !ok {
		return 0, false, WrongType(key, "integer")
	}
	return n, true, nil
}

// RequiredDict returns the dictionary at key.
func RequiredDict(dict map[string]interface{}, key string) (map[string]interface{}, error) {
	v, ok := dict[key]
	if !ok {
		return nil, Missing(key)
	}
	d, ok := v.(map[string]interface{})
	if !ok {
		return nil, WrongType(key, "dictionary")
	}
	return d, nil
}

// RequiredList returns the list at key.
func RequiredList(dict map[string]interface{}, key string) ([]interface{}, error) {
	v, ok := dict[key]
	if !ok {
		return nil, Missing(key)
	}
	l, ok := v.([]interface{})
	if !ok {
		return nil, WrongType(key, "list")
	}
	return l, nil
}

// Strings converts a list whose elements must all be UTF-8 strings. field
// names the list in errors.
func Strings(list []interface{}, field string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, WrongType(field, "list of strings")
		}
		if !utf8.ValidString(s) {
			return nil, InvalidUTF8(field)
		}
		out = append(out, s)
	}
	return out, nil
}
