package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestreldns/rind/internal/dns"
	"github.com/kestreldns/rind/internal/metrics"
	"github.com/kestreldns/rind/internal/resolver"
	"github.com/kestreldns/rind/internal/server"
	"github.com/kestreldns/rind/internal/store"
)

type memStore struct {
	records map[string]store.Record
}

func (m memStore) Resolve(name, recordType string) (store.Record, bool) {
	r, ok := m.records[name+"/"+recordType]
	return r, ok
}

func TestUDPServerRunStopsOnCancel(t *testing.T) {
	st := memStore{records: map[string]store.Record{
		"udp.example.com/A": {Name: "udp.example.com", RecordType: "A", IP: "192.0.2.50", TTL: 300},
	}}

	h := &server.QueryHandler{
		Resolver: resolver.New(st),
		Metrics:  metrics.NewPrometheus(),
		Instance: "test",
	}
	srv := &server.UDPServer{Handler: h}

	ctx, cancel := context.WithCancel(context.Background())

	listenDone := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		defer close(listenDone)
		errCh <- srv.Run(ctx, "127.0.0.1:0")
	}()

	// Give the listener a moment to bind before requesting shutdown.
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-listenDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
	require.NoError(t, <-errCh)
}

func TestQueryHandlerAnswersKnownARecord(t *testing.T) {
	st := memStore{records: map[string]store.Record{
		"direct.example.com/A": {Name: "direct.example.com", RecordType: "A", IP: "192.0.2.60", TTL: 60},
	}}
	h := &server.QueryHandler{
		Resolver: resolver.New(st),
		Metrics:  metrics.NewPrometheus(),
		Instance: "test",
	}

	resp := h.Handle("127.0.0.1", mustEncodeQuery(t, "direct.example.com", uint16(dns.TypeA)))
	require.NotEmpty(t, resp)

	off := 0
	hdr, err := dns.ParseHeader(resp, &off)
	require.NoError(t, err)
	require.Equal(t, dns.RCodeNoError, dns.RCodeFromFlags(hdr.Flags))
}

func mustEncodeQuery(t *testing.T, name string, qtype uint16) []byte {
	t.Helper()
	nameBytes, err := dns.EncodeName(name)
	require.NoError(t, err)

	msg := make([]byte, 0, 32)
	hdr := dns.Header{ID: 99, QDCount: 1}
	msg = append(msg, hdr.Marshal()...)
	msg = append(msg, nameBytes...)
	msg = append(msg, byte(qtype>>8), byte(qtype))
	msg = append(msg, 0x00, 0x01) // IN class
	return msg
}
