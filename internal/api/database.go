package api

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const billBucket = "bill_scans"

// DB defines the interface for bill scan history persistence
type DB interface {
	// SaveBillScan saves a bill scan record
	SaveBillScan(scan *BillScan) error

	// GetBillScan retrieves a bill scan by ID
	GetBillScan(id string) (*BillScan, error)

	// ListBillScans returns all bill scans
	ListBillScans() ([]*BillScan, error)

	// DeleteBillScan removes a bill scan
	DeleteBillScan(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(billBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveBillScan saves a bill scan record
func (b *BoltDB) SaveBillScan(scan *BillScan) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(scan)
		if err != nil {
			return fmt.Errorf("marshaling bill scan: %w", err)
		}
		return tx.Bucket([]byte(billBucket)).Put([]byte(scan.ID), data)
	})
}

// GetBillScan retrieves a bill scan by ID
func (b *BoltDB) GetBillScan(id string) (*BillScan, error) {
	var scan *BillScan
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(billBucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("bill scan not found: %s", id)
		}
		return json.Unmarshal(data, &scan)
	})
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// ListBillScans returns all bill scans
func (b *BoltDB) ListBillScans() ([]*BillScan, error) {
	scans := make([]*BillScan, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(billBucket)).ForEach(func(k, v []byte) error {
			var scan BillScan
			if err := json.Unmarshal(v, &scan); err != nil {
				return fmt.Errorf("unmarshaling bill scan: %w", err)
			}
			scans = append(scans, &scan)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return scans, nil
}

// DeleteBillScan removes a bill scan
func (b *BoltDB) DeleteBillScan(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(billBucket)).Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
