package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Texter is implemented by values that have a plain-text rendering.
type Texter interface {
	Text() string
}

// ParseFormat validates a format name. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatYAML, FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use auto, yaml, json or text)", s)
	}
}

// Resolve turns FormatAuto into json for piped output and yaml for a
// terminal. Other formats are returned unchanged.
func Resolve(f Format, out *os.File) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if IsOutputPiped(out) {
		return FormatJSON
	}
	return FormatYAML
}

// IsOutputPiped reports whether out is something other than a terminal.
func IsOutputPiped(out *os.File) bool {
	return !term.IsTerminal(int(out.Fd()))
}

// Write serializes v to w. FormatAuto must be resolved first.
func Write(w io.Writer, f Format, pretty bool, v any) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, v, pretty)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatText:
		t, ok := v.(Texter)
		if !ok {
			return fmt.Errorf("text output not supported for %T", v)
		}
		_, err := fmt.Fprintln(w, t.Text())
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}

// WriteJSON writes v as one line of JSON, or indented when pretty is set.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
