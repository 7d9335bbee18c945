package store

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// datastoreHeader is written at the top of a freshly initialized datastore
// file, documenting the canonical and legacy line grammars.
const datastoreHeader = `# DNS Records File - Enhanced UUID Format
# ============================================
#
# Format: id:name:ip:ttl:type:class:value
#
# Field Descriptions:
# - id: UUID v4 identifier for the record (unique)
# - name: domain name (e.g., example.com)
# - ip: IP address for A records, empty for other types
# - ttl: time to live in seconds (e.g., 300)
# - type: record type (A, AAAA, CNAME, TXT, MX, NS, PTR, SOA, SRV)
# - class: record class (IN, CH, HS - usually IN)
# - value: additional value for CNAME, TXT records (optional)
#
# Examples:
# 550e8400-e29b-41d4-a716-446655440000:example.com:93.184.216.34:300:A:IN
# 6ba7b810-9dad-11d1-80b4-00c04fd430c8:www.example.com::300:CNAME:IN:example.com
# 6ba7b811-9dad-11d1-80b4-00c04fd430c8:example.com::300:TXT:IN:v=spf1 include:_spf.google.com ~all
#
`

const datastoreHeaderMarker = "DNS Records File - Enhanced UUID Format"

// FileDatastoreProvider is the sole concrete DatastoreProvider: a flat,
// line-oriented text file rewritten in full on every save.
type FileDatastoreProvider struct {
	path string
}

// NewFileDatastoreProvider returns a provider backed by the file at path.
func NewFileDatastoreProvider(path string) *FileDatastoreProvider {
	return &FileDatastoreProvider{path: path}
}

// Initialize creates the datastore file with its header comment block if
// it does not already exist. An existing file is left untouched whatever
// its format, so LoadAll can still read legacy lines from it.
func (p *FileDatastoreProvider) Initialize() error {
	if _, err := os.Stat(p.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &IoError{Err: err}
	}
	f, err := os.Create(p.path)
	if err != nil {
		return &IoError{Err: err}
	}
	defer f.Close()
	if _, err := f.WriteString(datastoreHeader); err != nil {
		return &IoError{Err: err}
	}
	return nil
}

// HealthCheck reports whether the datastore file exists and looks like a
// canonical-format file (a matching header, or at least one canonical
// UUID-format record line). A missing file is not an error: it is simply
// not yet initialized.
func (p *FileDatastoreProvider) HealthCheck() (bool, error) {
	f, err := os.Open(p.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &IoError{Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, datastoreHeaderMarker) {
			return true, nil
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) >= 6 {
			if _, err := uuid.Parse(parts[0]); err == nil {
				return true, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return false, &IoError{Err: err}
	}
	return false, nil
}

// LoadAll reads every line of the datastore file, skipping comments and
// blank lines. Unrecognised lines are skipped, never fatal. Three line
// formats are accepted; see parseLine.
func (p *FileDatastoreProvider) LoadAll() (map[string]Record, error) {
	records := make(map[string]Record)

	f, err := os.Open(p.path)
	if os.IsNotExist(err) {
		return records, nil
	}
	if err != nil {
		return nil, &IoError{Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, ok := parseLine(line)
		if !ok {
			continue
		}
		records[rec.ID] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, &IoError{Err: err}
	}
	return records, nil
}

// SaveAll rewrites the entire datastore file in canonical UUID format,
// preceded by the format header. This is a full-file rewrite, not an
// append; no fsync or atomic rename is performed (see DESIGN.md's
// resolution of the corresponding open question).
func (p *FileDatastoreProvider) SaveAll(records map[string]Record) error {
	f, err := os.Create(p.path)
	if err != nil {
		return &IoError{Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(datastoreHeader); err != nil {
		return &IoError{Err: err}
	}
	for _, r := range records {
		if _, err := w.WriteString(formatCanonicalLine(r) + "\n"); err != nil {
			return &IoError{Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &IoError{Err: err}
	}
	return nil
}

func formatCanonicalLine(r Record) string {
	line := fmt.Sprintf("%s:%s:%s:%d:%s:%s", r.ID, r.Name, r.IP, r.TTL, r.RecordType, r.Class)
	if r.Value != "" {
		line += ":" + r.Value
	}
	return line
}

// parseLine parses one non-comment datastore line, in priority order:
//
//  1. Canonical UUID format: id:name:ip:ttl:type:class[:value] (>= 6 fields,
//     parts[0] parses as a UUID).
//  2. Legacy CNAME: name:target:ttl:class (exactly 4 fields, name starts
//     with 'C').
//  3. Legacy TXT: name:value:ttl:?:class (exactly 5 fields, name starts
//     with a single quote; the quote is stripped from the stored name).
//  4. Legacy plain: name:ip:ttl:type:class (>= 5 fields).
//
// Legacy lines have no id or historical timestamps in the file; a fresh
// id is generated and both timestamps are set to load time.
func parseLine(line string) (Record, bool) {
	parts := strings.Split(line, ":")
	now := time.Now().UTC()

	if len(parts) >= 6 {
		if id, err := uuid.Parse(parts[0]); err == nil {
			ttl, err := strconv.ParseUint(parts[3], 10, 32)
			if err != nil {
				return Record{}, false
			}
			value := ""
			if len(parts) > 6 {
				value = strings.Join(parts[6:], ":")
			}
			return Record{
				ID:         id.String(),
				Name:       parts[1],
				IP:         parts[2],
				TTL:        uint32(ttl),
				RecordType: parts[4],
				Class:      parts[5],
				Value:      value,
				CreatedAt:  now,
				UpdatedAt:  now,
			}, true
		}
	}

	if len(parts) == 4 && strings.HasPrefix(parts[0], "C") {
		ttl, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return Record{}, false
		}
		return Record{
			ID:         uuid.NewString(),
			Name:       parts[0],
			RecordType: "CNAME",
			Class:      parts[3],
			Value:      parts[1],
			TTL:        uint32(ttl),
			CreatedAt:  now,
			UpdatedAt:  now,
		}, true
	}

	if len(parts) == 5 && strings.HasPrefix(parts[0], "'") {
		ttl, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return Record{}, false
		}
		return Record{
			ID:         uuid.NewString(),
			Name:       strings.TrimPrefix(parts[0], "'"),
			RecordType: "TXT",
			Class:      parts[4],
			Value:      parts[1],
			TTL:        uint32(ttl),
			CreatedAt:  now,
			UpdatedAt:  now,
		}, true
	}

	if len(parts) >= 5 {
		ttl, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return Record{}, false
		}
		ip := parts[1]
		if ip != "" && net.ParseIP(ip) == nil {
			ip = ""
		}
		return Record{
			ID:         uuid.NewString(),
			Name:       parts[0],
			IP:         ip,
			TTL:        uint32(ttl),
			RecordType: parts[3],
			Class:      parts[4],
			CreatedAt:  now,
			UpdatedAt:  now,
		}, true
	}

	return Record{}, false
}
