package repotest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"billboard-report/pkg/storage"
)

// ObjectStore is an in-memory storage.ObjectStore.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int

	// FailAfter makes every Put after the first FailAfter calls fail. Zero disables it.
	FailAfter int
}

var ErrPutFailed = errors.New("put failed")

func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: make(map[string][]byte)}
}

func (o *ObjectStore) Put(_ context.Context, key string, r io.Reader) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.puts++
	if o.FailAfter > 0 && o.puts > o.FailAfter {
		return ErrPutFailed
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	o.objects[key] = data
	return nil
}

func (o *ObjectStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (o *ObjectStore) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(o.objects, key)
	return nil
}

// Puts counts Put calls, including failed ones.
func (o *ObjectStore) Puts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.puts
}

func (o *ObjectStore) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.objects))
	for k := range o.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
