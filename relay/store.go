package relay

import "encoding/json"

// Store holds the latest record per key in first-publish order.
// It is not safe for concurrent use; Service serializes access.
type Store struct {
	records map[string]*Record
	order   []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// CurrentVersion returns the key's last accepted version, or 0.
func (s *Store) CurrentVersion(key string) int64 {
	if rec, ok := s.records[key]; ok {
		return rec.ID.Version
	}
	return 0
}

// Accept stores data as the next version of key and returns the new record.
// The caller has already checked the declared version.
func (s *Store) Accept(key string, data json.RawMessage) *Record {
	prev, ok := s.records[key]
	version := int64(1)
	if ok {
		version = prev.ID.Version + 1
	} else {
		s.order = append(s.order, key)
	}

	rec := newRecord(key, version, data)
	s.records[key] = rec
	return rec
}

// Latest returns the current record of every key accepted by filter.
func (s *Store) Latest(filter Filter) []*Record {
	out := make([]*Record, 0, len(s.order))
	for _, key := range s.order {
		if filter.Accept(key) {
			out = append(out, s.records[key])
		}
	}
	return out
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.order)
}

// Clear drops every key.
func (s *Store) Clear() {
	clear(s.records)
	s.order = s.order[:0]
}
