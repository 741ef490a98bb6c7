package server

import (
	"fmt"
	"strings"

	"llmmonitor/internal/core"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LogFilter narrows a listing. Empty fields match everything.
type LogFilter struct {
	Provider string
	Model    string
	Limit    int
}

// LogStore keeps the most recent log records in memory. The oldest record is
// evicted once capacity is reached.
type LogStore struct {
	records *lru.Cache[string, *core.LogRecord]
}

func NewLogStore(capacity int) (*LogStore, error) {
	if capacity <= 0 {
		capacity = core.DefaultLogCapacity
	}
	cache, err := lru.New[string, *core.LogRecord](capacity)
	if err != nil {
		return nil, fmt.Errorf("create log store: %w", err)
	}
	return &LogStore{records: cache}, nil
}

// Put stores record under its request ID, replacing any earlier record with
// the same ID.
func (s *LogStore) Put(record *core.LogRecord) {
	s.records.Add(record.RequestID, record)
}

// Get looks a record up without changing its eviction order.
func (s *LogStore) Get(id string) (*core.LogRecord, bool) {
	return s.records.Peek(id)
}

// List returns matching records, newest first.
func (s *LogStore) List(filter LogFilter) []*core.LogRecord {
	keys := s.records.Keys()
	limit := filter.Limit
	if limit <= 0 {
		limit = core.DefaultListLimit
	}

	out := make([]*core.LogRecord, 0, min(limit, len(keys)))
	for i := len(keys) - 1; i >= 0 && len(out) < limit; i-- {
		rec, ok := s.records.Peek(keys[i])
		if !ok || !filter.matches(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// All returns every stored record, oldest first.
func (s *LogStore) All() []*core.LogRecord {
	keys := s.records.Keys()
	out := make([]*core.LogRecord, 0, len(keys))
	for _, k := range keys {
		if rec, ok := s.records.Peek(k); ok {
			out = append(out, rec)
		}
	}
	return out
}

func (s *LogStore) Len() int {
	return s.records.Len()
}

func (f LogFilter) matches(rec *core.LogRecord) bool {
	if f.Provider != "" && !strings.EqualFold(rec.Provider, f.Provider) {
		return false
	}
	if f.Model != "" && rec.Model != f.Model {
		return false
	}
	return true
}
