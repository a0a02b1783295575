// Package encoding converts the EUC-KR strings stored in Ragnarok Online
// archives and ground files.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// EUCKRToUTF8 converts EUC-KR encoded bytes to a UTF-8 string.
// Returns the bytes unchanged if they do not decode.
func EUCKRToUTF8(data []byte) string {
	result, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToEUCKR converts a UTF-8 string to EUC-KR bytes.
// Returns the string bytes unchanged if it has no EUC-KR form.
func UTF8ToEUCKR(s string) []byte {
	result, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// FixedStringToUTF8 decodes a null-padded EUC-KR field.
func FixedStringToUTF8(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return EUCKRToUTF8(data)
}

// NormalizeGRFPath folds an archive path for lookup: backslashes become
// slashes and ASCII letters are lowered.
func NormalizeGRFPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}
