package models

import "time"

// Record is the wire representation of a store.Record.
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IP         *string   `json:"ip"`
	TTL        uint32    `json:"ttl"`
	RecordType string    `json:"record_type"`
	Class      string    `json:"class"`
	Value      *string   `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRequest is the body of POST /records. Name is required; every
// other field is optional and defaulted by the store.
type CreateRequest struct {
	Name       string  `json:"name" binding:"required"`
	IP         *string `json:"ip"`
	TTL        *uint32 `json:"ttl"`
	RecordType *string `json:"record_type"`
	Class      *string `json:"class"`
	Value      *string `json:"value"`
}

// UpdateRequest is the body of PUT /records/{id}. Every field is
// optional; a present-but-empty Value clears the stored value.
type UpdateRequest struct {
	Name       *string `json:"name"`
	IP         *string `json:"ip"`
	TTL        *uint32 `json:"ttl"`
	RecordType *string `json:"record_type"`
	Class      *string `json:"class"`
	Value      *string `json:"value"`
}

// LegacyUpsertRequest is the body of POST /update: a full record.
type LegacyUpsertRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IP         string `json:"ip"`
	TTL        uint32 `json:"ttl"`
	RecordType string `json:"record_type"`
	Class      string `json:"class"`
	Value      string `json:"value"`
}

// ListResponse is the body of GET /records.
type ListResponse struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status           string  `json:"status"`
	UptimeSeconds    int64   `json:"uptime_seconds"`
	CPUPercent       float64 `json:"cpu_percent"`
	MemoryUsedBytes  uint64  `json:"memory_used_bytes"`
	MemoryTotalBytes uint64  `json:"memory_total_bytes"`
	ActiveRecords    int     `json:"active_records"`
}
