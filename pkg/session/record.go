package session

import (
	"encoding/json"
	"errors"
	"time"
)

// record is the at-rest form shared by all backends.
// The cookie and the data-changed flag are never persisted.
type record struct {
	ID        string            `json:"id"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	Data      map[string]string `json:"data"`
}

// encodeRecord serializes s and returns the data version the payload reflects.
func encodeRecord(s *Session) ([]byte, uint64, error) {
	data, version := s.snapshot()
	rec := record{ID: s.id, Data: data}
	if exp, ok := s.ExpiresAt(); ok {
		exp = exp.UTC()
		rec.ExpiresAt = &exp
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return nil, 0, errors.Join(ErrSerialization, err)
	}
	return b, version, nil
}

func decodeRecord(b []byte) (*Session, error) {
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, errors.Join(ErrSerialization, err)
	}
	if rec.ID == "" {
		return nil, ErrInvalidSession
	}

	var expiry time.Time
	if rec.ExpiresAt != nil {
		expiry = *rec.ExpiresAt
	}
	return restore(rec.ID, expiry, rec.Data), nil
}
