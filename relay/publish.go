package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dmitrymomot/relay/core/logger"
)

// MaxVersionDigits bounds declared versions so they stay exact as JSON numbers.
const MaxVersionDigits = 15

var (
	keyPattern     = regexp.MustCompile(`^[\w.-]+$`)
	versionPattern = regexp.MustCompile(`^[1-9][0-9]*$`)
)

// ValidKey reports whether key consists only of word characters, hyphens
// and dots.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// ParseVersion parses a declared version: a positive integer without
// leading zeros and at most MaxVersionDigits digits.
func ParseVersion(s string) (int64, error) {
	if len(s) > MaxVersionDigits || !versionPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	return v, nil
}

// Publish stores data as version of key and delivers it to matching
// subscribers. version must equal the key's current version plus one,
// otherwise a *ConflictError is returned and nothing changes. Empty data is
// stored as null; other data must be valid JSON and is compacted.
func (s *Service) Publish(ctx context.Context, key string, version int64, data json.RawMessage) (*Record, error) {
	if !ValidKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	if version < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}

	data, err := compact(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	if current := s.store.CurrentVersion(key); version != current+1 {
		return nil, &ConflictError{Key: key, Current: current, Declared: version}
	}

	rec := s.store.Accept(key, data)
	s.touch()

	delivered := s.hub.Deliver(ctx, key, rec)

	s.logger.DebugContext(ctx, "message published",
		logger.Component("relay"),
		logger.MessageKey(key),
		logger.Version(rec.ID.Version),
		logger.Count("delivered", delivered),
	)

	return rec, nil
}

func compact(data json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBody, err)
	}
	return buf.Bytes(), nil
}
