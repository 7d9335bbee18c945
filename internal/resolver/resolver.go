// Package resolver implements the single-step name lookup that turns a
// parsed query into a response: a pure function over the record store.
// Recursion, forwarding, caching, and DNSSEC are all out of scope.
package resolver

import (
	"net"

	"github.com/kestreldns/rind/internal/dns"
	"github.com/kestreldns/rind/internal/store"
)

// Store is the subset of *store.Store the resolver depends on.
type Store interface {
	Resolve(name string, recordType string) (store.Record, bool)
}

// Resolver answers queries from a record Store.
type Resolver struct {
	Store Store
}

// New creates a Resolver backed by the given store.
func New(s Store) *Resolver {
	return &Resolver{Store: s}
}

// Resolve builds the wire response for q.
//
// Algorithm:
//  1. Zero questions -> FORMERR.
//  2. Look up (name, qtype label) in the store.
//  3. A hit of type A answers NOERROR with its IP and TTL.
//  4. Anything else (no hit, or a hit of a non-A type) answers NXDOMAIN
//     with 0.0.0.0 and a 60s TTL — cross-type resolution (e.g. serving a
//     CNAME's target, or an MX answer) is explicitly out of scope.
func (r *Resolver) Resolve(q dns.Query) []byte {
	if len(q.Questions) == 0 {
		return dns.BuildResponse(q, nil, dns.RCodeFormErr, 0)
	}

	question := q.Questions[0]
	typeLabel := dns.QueryTypeLabel(question.Type)

	rec, ok := r.Store.Resolve(question.Name, typeLabel)
	if !ok || typeLabel != "A" {
		return dns.BuildResponse(q, net.IPv4(0, 0, 0, 0), dns.RCodeNXDomain, 60)
	}

	ip := net.ParseIP(rec.IP)
	if ip == nil {
		return dns.BuildResponse(q, net.IPv4(0, 0, 0, 0), dns.RCodeNXDomain, 60)
	}

	return dns.BuildResponse(q, ip, dns.RCodeNoError, rec.TTL)
}
