package dns

import (
	"encoding/binary"

	"github.com/kestreldns/rind/internal/helpers"
)

// EDNS (Extension Mechanisms for DNS) constants per RFC 6891.
const (
	DefaultUDPPayloadSize = 512  // RFC 1035 default, used when a query carries no OPT.
	MaxUDPPayloadSize     = 4096 // Advertised in every response's OPT record.
)

// OPT represents the fixed fields of an EDNS0 OPT pseudo-record (RFC 6891
// Section 6.1.2). This server never emits EDNS options in RDATA, and
// options carried in a request's RDATA are skipped, not retained.
type OPT struct {
	UDPPayloadSize uint16
	ExtendedRCode  uint8
	Version        uint8
	DNSSECOk       bool
}

// marshalOPT serializes the always-emitted response OPT record: root name,
// type 41, class MaxUDPPayloadSize, a zeroed TTL field (extended rcode,
// version and flags all zero), and an empty RDATA.
func marshalOPT() []byte {
	b := make([]byte, 11)
	b[0] = 0 // root name
	binary.BigEndian.PutUint16(b[1:3], uint16(TypeOPT))
	binary.BigEndian.PutUint16(b[3:5], MaxUDPPayloadSize)
	binary.BigEndian.PutUint32(b[5:9], 0) // extended rcode, version, DO flag: all zero
	binary.BigEndian.PutUint16(b[9:11], 0)
	return b
}

// parseOPT reads one EDNS0 OPT pseudo-RR starting at *off, as laid out in
// §4.1's parse contract: a name (expected root), 2-byte type, 2-byte class
// (payload size), 4 bytes of extended rcode/version/flags, a 2-byte
// rdlength, and rdlength bytes of opaque data. Any bounds violation fails
// with KindMalformed. A type other than 41 is tolerated (the field is
// still consumed) but does not produce an OPT.
func parseOPT(msg []byte, off *int) (*OPT, error) {
	_, err := decodeQuestionName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off+10 > len(msg) {
		return nil, newParseError(KindMalformed, "unexpected end of message while reading OPT record")
	}
	rtype := binary.BigEndian.Uint16(msg[*off : *off+2])
	payloadSize := binary.BigEndian.Uint16(msg[*off+2 : *off+4])
	ttl := binary.BigEndian.Uint32(msg[*off+4 : *off+8])
	rdlen := int(binary.BigEndian.Uint16(msg[*off+8 : *off+10]))
	*off += 10
	if *off+rdlen > len(msg) {
		return nil, newParseError(KindMalformed, "OPT rdlength extends past end of message")
	}
	*off += rdlen

	if RecordType(rtype) != TypeOPT {
		return nil, nil
	}
	return &OPT{
		UDPPayloadSize: payloadSize,
		ExtendedRCode:  helpers.ClampUint32ToUint8((ttl >> 24) & 0xFF),
		Version:        helpers.ClampUint32ToUint8((ttl >> 16) & 0xFF),
		DNSSECOk:       ((ttl >> 15) & 0x1) == 1,
	}, nil
}
