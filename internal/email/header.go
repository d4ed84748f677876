package email

import "mime"

// encodeHeader RFC 2047-encodes non-ASCII header text.
func encodeHeader(s string) string {
	return mime.BEncoding.Encode("UTF-8", s)
}
