package dns

import "strings"

// NormalizeName returns a lowercase DNS name without a trailing dot. It is
// provided as a utility for callers that want RFC 1035 §3.1 case-insensitive
// comparison, but is deliberately not invoked by ParseQuery or the resolver:
// this server matches query names against stored names byte-for-byte.
func NormalizeName(name string) string {
	return strings.ToLower(trimDot(name))
}

// EncodeName encodes a domain name to DNS wire format (RFC 1035 Section 3.1):
// a sequence of length-prefixed labels terminated by a zero-length label.
//
// Each label must be ASCII and at most 63 bytes; the fully encoded name
// (including length bytes and the terminator) must be at most 255 bytes.
func EncodeName(domain string) ([]byte, error) {
	domain = trimDot(domain)
	if domain == "" {
		return []byte{0}, nil
	}

	out := make([]byte, 0, len(domain)+2)
	labelStart := 0
	for i := 0; i <= len(domain); i++ {
		if i == len(domain) || domain[i] == '.' {
			if i == labelStart {
				return nil, newParseError(KindMalformed, "empty label in domain name %q", domain)
			}
			label := domain[labelStart:i]
			for j := range len(label) {
				if label[j] > 0x7F {
					return nil, newParseError(KindMalformed, "domain name must be ASCII")
				}
			}
			if len(label) > 63 {
				return nil, newParseError(KindMalformed, "DNS label too long (%d > 63): %q", len(label), label)
			}
			out = append(out, byte(len(label)))
			out = append(out, label...)
			labelStart = i + 1
		}
	}
	out = append(out, 0)

	if len(out) > 255 {
		return nil, newParseError(KindMalformed, "encoded domain name too long (%d > 255)", len(out))
	}
	return out, nil
}

// decodeQuestionName reads a sequence of length-prefixed labels starting at
// *off, advancing *off past the terminating zero-length label. Compression
// pointers (top two bits of the length byte set) are not followed; per
// spec, encountering one in a question name fails with KindUnsupported,
// since this server only parses requests, never messages it must resolve
// against earlier names in the same packet.
func decodeQuestionName(msg []byte, off *int) (string, error) {
	labels := make([]string, 0, 6)
	for {
		if *off >= len(msg) {
			return "", newParseError(KindMalformed, "unexpected end of message while reading name")
		}
		labelLen := msg[*off]
		*off++

		if labelLen == 0 {
			break
		}
		if isCompressionPointer(labelLen) {
			return "", newParseError(KindUnsupported, "compression pointer in question name")
		}
		if hasReservedBits(labelLen) {
			return "", newParseError(KindMalformed, "reserved label length bits set")
		}

		label, err := readLabel(msg, off, int(labelLen))
		if err != nil {
			return "", err
		}
		labels = append(labels, label)
	}
	return joinLabels(labels), nil
}

func isCompressionPointer(b byte) bool {
	return (b & 0xC0) == 0xC0
}

func hasReservedBits(b byte) bool {
	return (b & 0xC0) != 0
}

func readLabel(msg []byte, off *int, length int) (string, error) {
	if *off+length > len(msg) {
		return "", newParseError(KindMalformed, "unexpected end of message while reading label")
	}
	label := msg[*off : *off+length]
	*off += length
	for _, b := range label {
		if b > 0x7F {
			return "", newParseError(KindMalformed, "decoded label was not ASCII")
		}
	}
	return string(label), nil
}

func trimDot(s string) string {
	for len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// joinLabels concatenates DNS labels with dots, pre-sizing the builder.
func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	if len(labels) == 1 {
		return labels[0]
	}
	totalSize := len(labels) - 1
	for _, label := range labels {
		totalSize += len(label)
	}
	var b strings.Builder
	b.Grow(totalSize)
	b.WriteString(labels[0])
	for i := 1; i < len(labels); i++ {
		b.WriteByte('.')
		b.WriteString(labels[i])
	}
	return b.String()
}
