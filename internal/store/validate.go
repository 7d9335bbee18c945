package store

import "slices"

// Validate checks a record against the store's validation rules, returning
// the first violation found as a *ValidationError.
func Validate(r Record) error {
	if r.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	for _, c := range r.Name {
		if !isNameChar(c) {
			return &ValidationError{Field: "name", Reason: "must contain only alphanumerics, '.', '-', or '_'"}
		}
	}
	if r.TTL > MaxTTL {
		return &ValidationError{Field: "ttl", Reason: "must not exceed 604800 seconds"}
	}
	if !slices.Contains(ValidRecordTypes, r.RecordType) {
		return &ValidationError{Field: "record_type", Reason: "unrecognised record type " + r.RecordType}
	}
	if !slices.Contains(ValidClasses, r.Class) {
		return &ValidationError{Field: "class", Reason: "unrecognised class " + r.Class}
	}
	if r.RecordType == "A" && r.IP == "" {
		return &ValidationError{Field: "ip", Reason: "required for A records"}
	}
	if (r.RecordType == "CNAME" || r.RecordType == "TXT") && r.Value == "" {
		return &ValidationError{Field: "value", Reason: "required for CNAME and TXT records"}
	}
	return nil
}

func isNameChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.' || c == '-' || c == '_':
		return true
	default:
		return false
	}
}
