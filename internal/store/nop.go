package store

import "github.com/amishk599/jobalert/internal/model"

// DryRunStore is used in dry-run mode. It loads through the wrapped store so
// already-seen postings are still skipped, but never writes anything back.
type DryRunStore struct {
	inner model.SeenStore
}

func NewDryRunStore(inner model.SeenStore) *DryRunStore { return &DryRunStore{inner: inner} }

func (s *DryRunStore) Load() (*model.SeenSet, error) { return s.inner.Load() }
func (s *DryRunStore) Save(*model.SeenSet) error     { return nil }
