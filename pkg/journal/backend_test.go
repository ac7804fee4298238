package journal

import (
	"bytes"
	"path/filepath"
	"testing"
)

// backendTestSuite runs the same checks against any Backend implementation.
func backendTestSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("CreateBucket is idempotent", func(t *testing.T) {
		backend := newBackend(t)

		if err := backend.CreateBucket([]byte("test")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}
		if err := backend.Put([]byte("test"), []byte("k"), []byte("v")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := backend.CreateBucket([]byte("test")); err != nil {
			t.Errorf("CreateBucket should be idempotent: %v", err)
		}

		got, _ := backend.Get([]byte("test"), []byte("k"))
		if !bytes.Equal(got, []byte("v")) {
			t.Errorf("recreating bucket lost data, Get = %q", got)
		}
	})

	t.Run("PutAndGet", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("test"))

		value := []byte("value1")
		if err := backend.Put([]byte("test"), []byte("key1"), value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		value[0] = 'X'

		got, err := backend.Get([]byte("test"), []byte("key1"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, []byte("value1")) {
			t.Errorf("Get returned %s, want value1", got)
		}

		got, err = backend.Get([]byte("test"), []byte("nonexistent"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Errorf("Get should return nil for non-existent key, got %s", got)
		}
	})

	t.Run("MissingBucket", func(t *testing.T) {
		backend := newBackend(t)

		if err := backend.Put([]byte("nope"), []byte("k"), []byte("v")); err == nil {
			t.Error("Put into missing bucket should fail")
		}
		if _, err := backend.Get([]byte("nope"), []byte("k")); err == nil {
			t.Error("Get from missing bucket should fail")
		}
	})

	t.Run("ForEach in key order", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("test"))

		for _, k := range []string{"key3", "key1", "key2"} {
			backend.Put([]byte("test"), []byte(k), []byte("v-"+k))
		}

		var keys []string
		err := backend.ForEach([]byte("test"), func(k, v []byte) error {
			if string(v) != "v-"+string(k) {
				t.Errorf("ForEach: key %s has value %s", k, v)
			}
			keys = append(keys, string(k))
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}

		want := []string{"key1", "key2", "key3"}
		if len(keys) != len(want) {
			t.Fatalf("ForEach visited %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("ForEach order = %v, want %v", keys, want)
				break
			}
		}
	})
}

func TestMemoryBackend(t *testing.T) {
	backendTestSuite(t, func(t *testing.T) Backend {
		return NewMemoryBackend()
	})
}

func TestBboltBackend(t *testing.T) {
	backendTestSuite(t, func(t *testing.T) Backend {
		backend, err := NewBboltBackend(filepath.Join(t.TempDir(), "nested", "test.db"))
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		t.Cleanup(func() { backend.Close() })
		return backend
	})
}
