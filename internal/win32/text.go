package win32

import "unicode/utf16"

// TrimWindowText decodes a GetWindowTextW buffer. Everything after the last
// non-NUL unit is dropped and unpaired surrogates become U+FFFD. It reports
// false when the buffer holds nothing but NULs.
func TrimWindowText(buf []uint16) (string, bool) {
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	if end == 0 {
		return "", false
	}
	return string(utf16.Decode(buf[:end])), true
}

// TrimAtNUL cuts a buffer at its first NUL and decodes it.
func TrimAtNUL(buf []uint16) string {
	for i, u := range buf {
		if u == 0 {
			return string(utf16.Decode(buf[:i]))
		}
	}
	return string(utf16.Decode(buf))
}
