// Package server implements the UDP DNS listener: a single socket, one
// receive goroutine, and a bounded channel handing datagrams off to a
// goroutine spawned per packet.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/kestreldns/rind/internal/dns"
	"github.com/kestreldns/rind/internal/metrics"
)

// Resolver is the subset of *resolver.Resolver the query handler depends on.
type Resolver interface {
	Resolve(q dns.Query) []byte
}

// QueryHandler turns a raw request datagram into a response datagram,
// classifying the query and response for metrics and logging along the
// way.
type QueryHandler struct {
	Logger   *slog.Logger
	Resolver Resolver
	Metrics  metrics.Sink
	Instance string // SERVER_ID, used as the metrics "instance" label
}

// Handle parses reqBytes, resolves it, and returns the response bytes to
// send back to src. A nil/empty return means the datagram is dropped —
// the client observes a timeout, matching the "parse failures are logged
// and counted; no response is sent" propagation policy.
func (h *QueryHandler) Handle(src string, reqBytes []byte) []byte {
	start := time.Now()
	q, err := dns.ParseQuery(reqBytes)
	if err != nil {
		h.Metrics.IncrementPacketErrors()
		if h.Logger != nil {
			h.Logger.Warn("dns parse error", "src", src, "err", err)
		}
		return nil
	}

	queryType := "OTHER"
	if len(q.Questions) > 0 {
		queryType = dns.QueryTypeLabel(q.Questions[0].Type)
	}

	resp := h.Resolver.Resolve(q)

	h.Metrics.ObserveQuery(queryType, h.Instance, time.Since(start).Seconds())

	off := 0
	respHeader, err := dns.ParseHeader(resp, &off)
	if err != nil {
		// Response building never fails to produce a well-formed header;
		// this branch only guards against a malformed resolver output.
		h.Metrics.IncrementPacketErrors()
		return resp
	}

	rcode := dns.RCodeFromFlags(respHeader.Flags)
	codeStr := rcode.String()
	h.Metrics.CountResponse(codeStr, h.Instance)

	switch rcode {
	case dns.RCodeNXDomain:
		h.Metrics.IncrementNXDomain()
	case dns.RCodeServFail:
		h.Metrics.IncrementServfail()
	}

	if h.Logger != nil {
		level := slog.LevelDebug
		switch rcode {
		case dns.RCodeServFail:
			level = slog.LevelWarn
		case dns.RCodeNXDomain, dns.RCodeFormErr:
			level = slog.LevelInfo
		}
		h.Logger.Log(context.Background(), level, "dns query",
			"src", src,
			"query_type", queryType,
			"rcode", codeStr,
		)
	}

	return resp
}
