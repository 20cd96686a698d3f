package relay

import "encoding/json"

// ID identifies one accepted publish.
type ID struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
}

// Record is the latest accepted message for a key. Records are immutable;
// a publish replaces the key's record as a whole, so its identity, event
// frame and snapshot always agree.
type Record struct {
	ID   ID
	Data json.RawMessage

	eventID  string
	snapshot json.RawMessage
}

func newRecord(key string, version int64, data json.RawMessage) *Record {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	id := ID{Key: key, Version: version}
	idJSON, _ := json.Marshal(id) // cannot fail: string and integer fields

	snapshot := make([]byte, 0, len(idJSON)+len(data)+16)
	snapshot = append(snapshot, `{"id":`...)
	snapshot = append(snapshot, idJSON...)
	snapshot = append(snapshot, `,"data":`...)
	snapshot = append(snapshot, data...)
	snapshot = append(snapshot, '}')

	return &Record{
		ID:       id,
		Data:     data,
		eventID:  string(idJSON),
		snapshot: snapshot,
	}
}

// EventID returns the event stream id line: {"key":K,"version":V}.
func (r *Record) EventID() string {
	return r.eventID
}

// EventData returns the published payload as single-line JSON.
func (r *Record) EventData() []byte {
	return r.Data
}

// Snapshot returns {"id":{"key":K,"version":V},"data":D}.
func (r *Record) Snapshot() json.RawMessage {
	return r.snapshot
}
