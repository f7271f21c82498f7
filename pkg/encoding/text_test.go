package encoding

import (
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestDecodeText(t *testing.T) {
	utf16LE, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("[SECTORS]\n")
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	utf16BE, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String("[WALLS]\n")
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain", []byte("[SECTORS]\n0 0 4 0 3 -1 0\n"), "[SECTORS]\n0 0 4 0 3 -1 0\n"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "// map\n"...), "// map\n"},
		{"utf16 le", []byte(utf16LE), "[SECTORS]\n"},
		{"utf16 be", []byte(utf16BE), "[WALLS]\n"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.data)
			if err != nil {
				t.Fatalf("DecodeText failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasBOM(t *testing.T) {
	if !HasBOM([]byte{0xEF, 0xBB, 0xBF, 'a'}) {
		t.Error("expected UTF-8 BOM to be detected")
	}
	if !HasBOM([]byte{0xFF, 0xFE, 'a', 0}) {
		t.Error("expected UTF-16LE BOM to be detected")
	}
	if HasBOM([]byte("abc")) {
		t.Error("plain text has no BOM")
	}
}

func TestNormalizeAssetPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Brick.PNG", "brick.png"},
		{`textures\Stone\wall01`, "textures/stone/wall01"},
		{"/walls//metal.bmp", "walls/metal.bmp"},
		{"./wood", "wood"},
	}
	for _, tt := range tests {
		if got := NormalizeAssetPath(tt.in); got != tt.want {
			t.Errorf("NormalizeAssetPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
