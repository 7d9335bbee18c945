package dns

import (
	"encoding/binary"
	"net"
)

// BuildResponse builds a response frame for a parsed query, per §4.1's
// build-response contract: the question is echoed, an A answer is
// included only when rcode is NOERROR, and an OPT additional record
// advertising a 4096-byte payload is always appended regardless of
// whether the query carried EDNS.
//
// If the question name cannot be re-encoded (labels over 63 bytes, or a
// total length over 255 bytes — only reachable from a decoded name built
// out of many short labels), the response degrades to a bare SERVFAIL
// with no question or answer section rather than failing outright: every
// query produces a response.
func BuildResponse(q Query, ip net.IP, rcode RCode, ttl uint32) []byte {
	if len(q.Questions) == 0 {
		return buildBareResponse(q.ID, q.Flags, RCodeFormErr)
	}

	question := q.Questions[0]
	nameBytes, err := EncodeName(question.Name)
	if err != nil {
		return buildBareResponse(q.ID, q.Flags, RCodeServFail)
	}

	ancount := uint16(0)
	if rcode == RCodeNoError {
		ancount = 1
	}

	flags := QRFlag | (q.Flags & RDFlag) | (uint16(rcode) & RCodeMask)
	h := Header{ID: q.ID, Flags: flags, QDCount: 1, ANCount: ancount, NSCount: 0, ARCount: 1}

	out := make([]byte, 0, HeaderSize+2*len(nameBytes)+14+11)
	out = append(out, h.Marshal()...)

	out = append(out, nameBytes...)
	qtc := make([]byte, 4)
	binary.BigEndian.PutUint16(qtc[0:2], question.Type)
	binary.BigEndian.PutUint16(qtc[2:4], question.Class)
	out = append(out, qtc...)

	if rcode == RCodeNoError {
		out = append(out, nameBytes...)
		rr := make([]byte, 10)
		binary.BigEndian.PutUint16(rr[0:2], uint16(TypeA))
		binary.BigEndian.PutUint16(rr[2:4], uint16(ClassIN))
		binary.BigEndian.PutUint32(rr[4:8], ttl)
		binary.BigEndian.PutUint16(rr[8:10], 4)
		out = append(out, rr...)

		ip4 := ip.To4()
		if ip4 == nil {
			ip4 = net.IPv4zero.To4()
		}
		out = append(out, ip4...)
	}

	out = append(out, marshalOPT()...)
	return out
}

// buildBareResponse constructs a question-less response: used for the
// defensive zero-question FORMERR path and the name-too-long SERVFAIL
// fallback.
func buildBareResponse(id, reqFlags uint16, rcode RCode) []byte {
	flags := QRFlag | (reqFlags & RDFlag) | (uint16(rcode) & RCodeMask)
	h := Header{ID: id, Flags: flags, QDCount: 0, ANCount: 0, NSCount: 0, ARCount: 1}
	out := make([]byte, 0, HeaderSize+11)
	out = append(out, h.Marshal()...)
	out = append(out, marshalOPT()...)
	return out
}
