package x11

import (
	"encoding/binary"
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/BurntSushi/xgb/xproto"
)

const sampleTitle = "Untitled — Notepad ✓ 𝄞"

func encode16(s string) []byte {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}

func encode32(s string) []byte {
	runes := []rune(s)
	buf := make([]byte, len(runes)*4)
	for i, r := range runes {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(r))
	}
	return buf
}

func TestDecodeText_AllFormats(t *testing.T) {
	tests := []struct {
		name   string
		format byte
		value  []byte
	}{
		{"8-bit", 8, []byte(sampleTitle)},
		{"16-bit", 16, encode16(sampleTitle)},
		{"32-bit", 32, encode32(sampleTitle)},
		{"8-bit trailing nul", 8, append([]byte(sampleTitle), 0, 0)},
		{"16-bit trailing nul", 16, append(encode16(sampleTitle), 0, 0)},
		{"32-bit trailing nul", 32, append(encode32(sampleTitle), 0, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Property{Name: "_NET_WM_NAME", Format: tt.format, Value: tt.value}
			got, err := p.DecodeText()
			if err != nil {
				t.Fatalf("DecodeText() error: %v", err)
			}
			if got != sampleTitle {
				t.Fatalf("DecodeText() = %q, want %q", got, sampleTitle)
			}
		})
	}
}

func TestText_VariantMatchesFormat(t *testing.T) {
	cases := map[byte]string{8: "x11.Text8", 16: "x11.Text16", 32: "x11.Text32"}
	for format, want := range cases {
		p := &Property{Format: format, Value: make([]byte, 8)}
		text, err := p.Text()
		if err != nil {
			t.Fatalf("format %d: %v", format, err)
		}
		var got string
		switch text.(type) {
		case Text8:
			got = "x11.Text8"
		case Text16:
			got = "x11.Text16"
		case Text32:
			got = "x11.Text32"
		}
		if got != want {
			t.Fatalf("format %d produced %s, want %s", format, got, want)
		}
	}
}

func TestDecodeText_Failures(t *testing.T) {
	tests := []struct {
		name    string
		format  byte
		value   []byte
		wantErr error
	}{
		{"unknown format", 24, []byte("abc"), ErrUnsupportedFormat},
		{"invalid utf8", 8, []byte{0xff, 0xfe, 'a'}, ErrInvalidText},
		{"odd 16-bit length", 16, []byte{'a', 0, 'b'}, ErrInvalidText},
		{"unpaired high surrogate", 16, []byte{0x3d, 0xd8, 'a', 0}, ErrInvalidText},
		{"lone low surrogate", 16, []byte{0x00, 0xdc}, ErrInvalidText},
		{"ragged 32-bit length", 32, []byte{'a', 0, 0}, ErrInvalidText},
		{"surrogate scalar", 32, []byte{0x00, 0xd8, 0, 0}, ErrInvalidText},
		{"out of range scalar", 32, []byte{0, 0, 0x11, 0}, ErrInvalidText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Property{Name: "WM_NAME", Format: tt.format, Value: tt.value}
			_, err := p.DecodeText()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeText() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCardinal(t *testing.T) {
	value := make([]byte, 4)
	binary.LittleEndian.PutUint32(value, 4242)

	p := &Property{Name: "_NET_WM_PID", Type: xproto.AtomCardinal, Format: 32, Value: value}
	got, err := p.Cardinal()
	if err != nil {
		t.Fatalf("Cardinal() error: %v", err)
	}
	if got != 4242 {
		t.Fatalf("Cardinal() = %d, want 4242", got)
	}

	short := &Property{Name: "_NET_WM_PID", Type: xproto.AtomCardinal, Format: 32, Value: value[:2]}
	if _, err := short.Cardinal(); err == nil {
		t.Fatal("expected error for short value")
	}

	wrongFormat := &Property{Name: "_NET_WM_PID", Type: xproto.AtomCardinal, Format: 8, Value: value}
	if _, err := wrongFormat.Cardinal(); err == nil {
		t.Fatal("expected error for 8-bit format")
	}
}
