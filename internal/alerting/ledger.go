// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package alerting

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/project-barfani/barfani/internal/models"
)

// Ledger records notification outcomes in an embedded Badger store.
//
// The ledger is the audit trail for the at-most-once delivery policy:
// one record per alert/language pair, written after the attempt finishes,
// never updated. Keys are "delivery/<alertID>/<language>" so all records
// for an alert share a prefix.
type Ledger struct {
	db *badger.DB
}

// OpenLedger opens the delivery ledger at the given directory. An empty
// path opens an in-memory store, used by tests and demo deployments.
func OpenLedger(path string) (*Ledger, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logger is noisy at INFO; the ledger is low-traffic.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open delivery ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying store.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func deliveryKey(alertID uuid.UUID, lang models.Language) []byte {
	return []byte(fmt.Sprintf("delivery/%s/%s", alertID, lang))
}

// Record persists one delivery outcome. A second record for the same
// alert/language pair is a policy violation and is rejected.
func (l *Ledger) Record(rec models.DeliveryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode delivery record: %w", err)
	}

	key := deliveryKey(rec.AlertID, rec.Language)
	return l.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("delivery %s/%s already recorded", rec.AlertID, rec.Language)
		}
		return txn.Set(key, data)
	})
}

// Deliveries returns all recorded outcomes for an alert, in key order
// (which is language order within the alert prefix).
func (l *Ledger) Deliveries(alertID uuid.UUID) ([]models.DeliveryRecord, error) {
	prefix := []byte(fmt.Sprintf("delivery/%s/", alertID))
	var out []models.DeliveryRecord

	err := l.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec models.DeliveryRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("corrupt delivery record at %s: %w", it.Item().Key(), err)
				}
				out = append(out, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Attempted reports whether a delivery for the alert/language pair has
// already been recorded.
func (l *Ledger) Attempted(alertID uuid.UUID, lang models.Language) (bool, error) {
	var found bool
	err := l.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(deliveryKey(alertID, lang))
		if err == nil {
			found = true
			return nil
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	return found, err
}
