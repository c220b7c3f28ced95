package main

import (
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// sessionRecordKey is the single key under which the session record lives.
const sessionRecordKey = "session.current"

type boltSessionStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *SessionConfig
}

// GetBoltDBClient setup the database file and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.Session.FilePath, 0o600, &bolt.Options{Timeout: config.Session.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.Session.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.Session.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltSessionStorage provides an instance of bolt-based session storage.
func NewBoltSessionStorage(logger *zap.Logger, sessionConfig *SessionConfig, client *bolt.DB) SessionStorage {
	return &boltSessionStorage{
		logger: logger,
		client: client,
		config: sessionConfig,
	}
}

// Close shuts down the bolt-based session storage.
func (bs *boltSessionStorage) Close() error {
	return bs.client.Close()
}

// Save writes the whole session record into the bolt store.
func (bs *boltSessionStorage) Save(record SessionRecord) error {
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(sessionRecordKey), recordBytes)
	})
	if err == nil {
		bs.logger.Debug("session record saved", zap.String("user.id", record.User.ID))
	}
	return err
}

// Load retrieves the session record from the bolt store.
// It returns ErrNoSession when no record was ever saved.
func (bs *boltSessionStorage) Load() (SessionRecord, error) {
	var record SessionRecord
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return record, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(sessionRecordKey))
	if result == nil {
		return record, ErrNoSession
	}
	err = json.Unmarshal(result, &record)
	return record, err
}

// Clear removes the session record from the bolt store.
func (bs *boltSessionStorage) Clear() error {
	err := bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Delete([]byte(sessionRecordKey))
	})
	if err == nil {
		bs.logger.Debug("session record cleared")
	}
	return err
}
