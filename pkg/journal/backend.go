package journal

import (
	"encoding/json"
	"fmt"
)

// Backend is the bucketed key-value store a Journal persists into.
type Backend interface {
	CreateBucket(name []byte) error
	Put(bucket, key, value []byte) error
	// Get returns nil without error when the key is absent.
	Get(bucket, key []byte) ([]byte, error)
	ForEach(bucket []byte, fn func(k, v []byte) error) error
	Close() error
}

func encodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	return data, nil
}

func decodeJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}

	return nil
}
