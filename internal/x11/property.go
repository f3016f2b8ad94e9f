package x11

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

var (
	// ErrUnsupportedFormat is returned for property formats other than 8, 16 and 32.
	ErrUnsupportedFormat = errors.New("unsupported property format")
	// ErrInvalidText is returned when a property does not decode to valid Unicode.
	ErrInvalidText = errors.New("invalid text encoding")
)

// Property is a raw window property as returned by GetProperty.
type Property struct {
	Name   string
	Type   xproto.Atom
	Format byte
	Value  []byte
}

// TextProperty is a property value split into elements of its declared
// format. Exactly one of Text8, Text16 and Text32 is produced per property.
type TextProperty interface {
	Decode() (string, error)
	isText()
}

// Text8 holds UTF-8 encoded bytes.
type Text8 []byte

// Text16 holds UTF-16 code units.
type Text16 []uint16

// Text32 holds one Unicode scalar value per element.
type Text32 []uint32

func (Text8) isText()  {}
func (Text16) isText() {}
func (Text32) isText() {}

// Text splits the property value by its format.
func (p *Property) Text() (TextProperty, error) {
	switch p.Format {
	case 8:
		return Text8(p.Value), nil
	case 16:
		if len(p.Value)%2 != 0 {
			return nil, fmt.Errorf("%s: %d bytes is not a whole number of 16-bit units: %w", p.Name, len(p.Value), ErrInvalidText)
		}
		units := make(Text16, len(p.Value)/2)
		for i := range units {
			units[i] = xgb.Get16(p.Value[i*2:])
		}
		return units, nil
	case 32:
		if len(p.Value)%4 != 0 {
			return nil, fmt.Errorf("%s: %d bytes is not a whole number of 32-bit units: %w", p.Name, len(p.Value), ErrInvalidText)
		}
		scalars := make(Text32, len(p.Value)/4)
		for i := range scalars {
			scalars[i] = xgb.Get32(p.Value[i*4:])
		}
		return scalars, nil
	default:
		return nil, fmt.Errorf("%s: format %d: %w", p.Name, p.Format, ErrUnsupportedFormat)
	}
}

// DecodeText decodes the property as text, trimming trailing NULs.
func (p *Property) DecodeText() (string, error) {
	text, err := p.Text()
	if err != nil {
		return "", err
	}
	s, err := text.Decode()
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.Name, err)
	}
	return s, nil
}

// Cardinal returns the first element of a 32-bit CARDINAL property.
func (p *Property) Cardinal() (uint32, error) {
	if p.Format != 32 || p.Type != xproto.AtomCardinal {
		return 0, fmt.Errorf("%s: expected 32-bit CARDINAL, got format %d type %d", p.Name, p.Format, p.Type)
	}
	if len(p.Value) < 4 {
		return 0, fmt.Errorf("%s: value too short (%d bytes)", p.Name, len(p.Value))
	}
	return xgb.Get32(p.Value), nil
}

func (t Text8) Decode() (string, error) {
	if !utf8.Valid(t) {
		return "", ErrInvalidText
	}
	return strings.TrimRight(string(t), "\x00"), nil
}

func (t Text16) Decode() (string, error) {
	end := len(t)
	for end > 0 && t[end-1] == 0 {
		end--
	}
	units := t[:end]
	for i := 0; i < len(units); i++ {
		if !utf16.IsSurrogate(rune(units[i])) {
			continue
		}
		if i+1 >= len(units) || utf16.DecodeRune(rune(units[i]), rune(units[i+1])) == utf8.RuneError {
			return "", ErrInvalidText
		}
		i++
	}
	return string(utf16.Decode(units)), nil
}

func (t Text32) Decode() (string, error) {
	var sb strings.Builder
	sb.Grow(len(t))
	end := len(t)
	for end > 0 && t[end-1] == 0 {
		end--
	}
	for _, v := range t[:end] {
		r := rune(v)
		if v > utf8.MaxRune || !utf8.ValidRune(r) {
			return "", ErrInvalidText
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
