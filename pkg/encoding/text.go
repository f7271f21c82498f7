// Package encoding provides text encoding utilities for map and asset files.
package encoding

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw map file bytes to a UTF-8 string.
// A UTF-8 BOM is stripped and BOM-marked UTF-16 (either byte order) is
// transcoded. Input without a BOM is taken as UTF-8.
func DecodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(result), nil
}

// HasBOM reports whether data starts with a UTF-8 or UTF-16 byte order mark.
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

// NormalizeAssetPath normalizes a texture reference for case-insensitive lookup.
// Map files written on Windows use backslashes, so both separators are accepted.
func NormalizeAssetPath(ref string) string {
	if ref == "" {
		return ""
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	ref = strings.ToLower(ref)
	ref = path.Clean(ref)
	return strings.TrimPrefix(ref, "/")
}
