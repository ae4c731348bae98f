package license

import (
	"sync"

	apperrors "alqcore/internal/errors"
)

// Store owns the authoritative license and usage maps. Every mutation of
// a license funnels through Update, which serializes on a per-key mutex;
// operations on different keys do not contend. The store is an injected
// repository, never a package-level singleton.
type Store struct {
	mu       sync.RWMutex
	licenses map[string]*License
	locks    map[string]*sync.Mutex

	usageMu sync.Mutex
	usage   map[string]*UsageRecord // organizationID|period
}

// Filter narrows List results. Zero-valued fields are ignored; set fields
// combine with AND.
type Filter struct {
	OrganizationID string
	Status         Status
	Plan           string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		licenses: make(map[string]*License),
		locks:    make(map[string]*sync.Mutex),
		usage:    make(map[string]*UsageRecord),
	}
}

// lockFor returns the mutation mutex for an existing key. Create
// installs the mutex alongside the license and nothing deletes either
// map entry, so a missing lock means the key does not exist. Lookups of
// unknown keys allocate nothing.
func (s *Store) lockFor(key string) (*sync.Mutex, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lock, ok := s.locks[key]
	return lock, ok
}

// Create registers a new license under its key.
func (s *Store) Create(l *License) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.licenses[l.Key]; exists {
		return apperrors.ErrLicenseExists
	}
	s.licenses[l.Key] = l
	s.locks[l.Key] = &sync.Mutex{}
	return nil
}

// Get returns a deep copy of the license for the key.
func (s *Store) Get(key string) (*License, error) {
	lock, ok := s.lockFor(key)
	if !ok {
		return nil, apperrors.ErrLicenseNotFound
	}
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	l := s.licenses[key]
	s.mu.RUnlock()
	return l.clone(), nil
}

// View runs fn against the live license under its per-key lock without
// permitting mutation to escape: fn must not retain the pointer.
func (s *Store) View(key string, fn func(*License) error) error {
	return s.Update(key, fn)
}

// Update runs fn against the live license under its per-key lock. The
// check-and-mutate sequences for activation caps and status transitions
// rely on this being the single serialization point.
func (s *Store) Update(key string, fn func(*License) error) error {
	lock, ok := s.lockFor(key)
	if !ok {
		return apperrors.ErrLicenseNotFound
	}
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	l := s.licenses[key]
	s.mu.RUnlock()
	return fn(l)
}

// List returns deep copies of all licenses matching the filter.
func (s *Store) List(f Filter) []*License {
	s.mu.RLock()
	keys := make([]string, 0, len(s.licenses))
	for key := range s.licenses {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	out := make([]*License, 0, len(keys))
	for _, key := range keys {
		lock, ok := s.lockFor(key)
		if !ok {
			continue
		}
		lock.Lock()
		s.mu.RLock()
		l, ok := s.licenses[key]
		s.mu.RUnlock()
		if ok && matches(l, f) {
			out = append(out, l.clone())
		}
		lock.Unlock()
	}
	return out
}

func matches(l *License, f Filter) bool {
	if f.OrganizationID != "" && l.OrganizationID != f.OrganizationID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.Plan != "" && l.Plan != f.Plan {
		return false
	}
	return true
}

func usageKey(organizationID, period string) string {
	return organizationID + "|" + period
}

// AddUsage atomically increments one counter of the (org, period) record,
// creating the record on first use, and returns a copy of the result.
func (s *Store) AddUsage(organizationID, period, resource string, amount int64) (*UsageRecord, error) {
	s.usageMu.Lock()
	defer s.usageMu.Unlock()

	rec, ok := s.usage[usageKey(organizationID, period)]
	if !ok {
		rec = &UsageRecord{OrganizationID: organizationID, Period: period}
		s.usage[usageKey(organizationID, period)] = rec
	}

	switch resource {
	case ResourceExecutions:
		rec.Executions += amount
	case ResourceAPICalls:
		rec.APICalls += amount
	case ResourceStorageBytes:
		rec.StorageBytes += amount
	case ResourceAICalls:
		rec.AICalls += amount
	default:
		return nil, apperrors.ErrUnknownResource
	}

	out := *rec
	return &out, nil
}

// Usage returns a copy of the (org, period) record, zeroed if none exists.
// Reading never creates state.
func (s *Store) Usage(organizationID, period string) UsageRecord {
	s.usageMu.Lock()
	defer s.usageMu.Unlock()

	if rec, ok := s.usage[usageKey(organizationID, period)]; ok {
		return *rec
	}
	return UsageRecord{OrganizationID: organizationID, Period: period}
}
