// Package history persists a durable record of every acquisition
// session's terminal outcome, for operator visibility only. C7 never
// reads this store and nothing here gates an acquisition.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/specs-group/kreiosd/internal/acquisition"
	"github.com/specs-group/kreiosd/internal/analyzer"
)

// Key namespace: a single prefix, since history has one record type.
//
// Data Type        Prefix   Key Format          Value Type
// Session Record    "s:"     s:<uuid>            SessionRecord (JSON)
const prefixSession = "s:"

func keySession(id uuid.UUID) []byte {
	return []byte(prefixSession + id.String())
}

// SessionRecord is the durable summary of one completed acquisition
// session.
type SessionRecord struct {
	ID                  uuid.UUID        `json:"id"`
	RunMode             analyzer.RunMode `json:"run_mode"`
	IterationsRequested int64            `json:"iterations_requested"`
	IterationsCompleted int64            `json:"iterations_completed"`
	Shape               analyzer.Shape   `json:"shape"`
	StartedAt           time.Time        `json:"started_at"`
	EndedAt             time.Time        `json:"ended_at"`
	FinalState          acquisition.State `json:"final_state"`
	Message             string           `json:"message"`
}

// metricsSink is satisfied by pkg/metrics/prometheus's badgerMetrics,
// named locally since that type is unexported.
type metricsSink interface {
	RecordOperation(operation string, duration time.Duration, err error)
	SetRecordCount(count int)
}

// Store is a badger-backed append-mostly log of SessionRecords.
type Store struct {
	db      *badger.DB
	metrics metricsSink
}

// Open opens (creating if absent) a badger database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("history: open badger store at %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// SetMetrics installs a metrics sink. Passing nil disables metrics
// collection.
func (s *Store) SetMetrics(m metricsSink) {
	s.metrics = m
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record durably stores rec, keyed by its ID. Called once, on a
// session's terminal transition (Finished, Aborted or Error).
func (s *Store) Record(rec SessionRecord) error {
	start := time.Now()
	err := s.record(rec)
	if s.metrics != nil {
		s.metrics.RecordOperation("append", time.Since(start), err)
	}
	return err
}

func (s *Store) record(rec SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: encode session record: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keySession(rec.ID), data)
	})
}

// List returns every session record, most recently started first.
func (s *Store) List() ([]SessionRecord, error) {
	start := time.Now()
	records, err := s.list()
	if s.metrics != nil {
		s.metrics.RecordOperation("list", time.Since(start), err)
		if err == nil {
			s.metrics.SetRecordCount(len(records))
		}
	}
	return records, err
}

func (s *Store) list() ([]SessionRecord, error) {
	var records []SessionRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixSession)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var rec SessionRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: list session records: %w", err)
	}

	sortByStartedAtDesc(records)
	return records, nil
}

func sortByStartedAtDesc(records []SessionRecord) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j].StartedAt.After(records[j-1].StartedAt); j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}
