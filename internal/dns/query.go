package dns

import "encoding/binary"

// MaxMessageSize bounds incoming UDP datagrams before any other parsing is
// attempted. This is defensive hardening beyond RFC 1035 (see SPEC_FULL.md
// §4.1 "Ambient hardening"); legitimate queries are far smaller.
const MaxMessageSize = 4096

// Question is the single question carried by a query (RFC 1035 §4.1.2).
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// Query is the parsed form of an incoming UDP datagram. Only single-
// question queries are supported; Questions holds exactly one entry on
// any value returned by ParseQuery, and zero only in the defensive,
// otherwise-unreachable case the resolver guards against (§4.3 step 1).
type Query struct {
	ID             uint16
	Flags          uint16
	Questions      []Question
	HasOPT         bool
	OPTPayloadSize uint16
}

// ParseQuery parses a single UDP datagram into a Query, per §4.1's parse
// contract: a 12-byte header, exactly one question, and an optional EDNS0
// OPT pseudo-record in the additional section.
func ParseQuery(msg []byte) (Query, error) {
	if len(msg) > MaxMessageSize {
		return Query{}, newParseError(KindMalformed, "message exceeds %d bytes", MaxMessageSize)
	}

	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return Query{}, err
	}
	if h.QDCount != 1 {
		return Query{}, newParseError(KindUnsupported, "unsupported question count %d", h.QDCount)
	}

	name, err := decodeQuestionName(msg, &off)
	if err != nil {
		return Query{}, err
	}
	if off+4 > len(msg) {
		return Query{}, newParseError(KindMalformed, "unexpected end of message while reading question")
	}
	q := Question{
		Name:  name,
		Type:  binary.BigEndian.Uint16(msg[off : off+2]),
		Class: binary.BigEndian.Uint16(msg[off+2 : off+4]),
	}
	off += 4

	query := Query{
		ID:             h.ID,
		Flags:          h.Flags,
		Questions:      []Question{q},
		OPTPayloadSize: DefaultUDPPayloadSize,
	}

	if h.ARCount > 0 {
		opt, err := parseOPT(msg, &off)
		if err != nil {
			return Query{}, err
		}
		if opt != nil {
			query.HasOPT = true
			query.OPTPayloadSize = opt.UDPPayloadSize
		}
	}

	return query, nil
}
