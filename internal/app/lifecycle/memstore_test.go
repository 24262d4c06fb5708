package lifecycle

import (
	"sync"
	"time"

	"greenbites/internal/app/ds"
)

// memStore - хранилище в памяти с той же семантикой условных записей,
// что и у репозитория: запись принимается только при совпадении версии.
type memStore struct {
	mu             sync.Mutex
	donations      map[uint]ds.Donation
	requests       map[uint]ds.Request
	nextDonationID uint
	nextRequestID  uint
}

func newMemStore() *memStore {
	return &memStore{
		donations: make(map[uint]ds.Donation),
		requests:  make(map[uint]ds.Request),
	}
}

func (m *memStore) GetDonation(id uint) (*ds.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := d
	return &copy, nil
}

func (m *memStore) GetRequest(id uint) (*ds.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := r
	return &copy, nil
}

func (m *memStore) CreateDonation(d *ds.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextDonationID++
	d.ID = m.nextDonationID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.donations[d.ID] = *d
	return nil
}

func (m *memStore) CreateRequest(r *ds.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRequestID++
	r.ID = m.nextRequestID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.requests[r.ID] = *r
	return nil
}

func (m *memStore) SaveDonation(d *ds.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveDonationLocked(d)
}

func (m *memStore) SaveRequest(r *ds.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveRequestLocked(r)
}

func (m *memStore) SaveClaim(r *ds.Request, d *ds.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// обе версии проверяются до каких-либо изменений: либо обе записи, либо ни одной
	if cur, ok := m.requests[r.ID]; !ok || cur.Version != r.Version {
		return ErrConflict
	}
	if cur, ok := m.donations[d.ID]; !ok || cur.Version != d.Version {
		return ErrConflict
	}

	if err := m.saveRequestLocked(r); err != nil {
		return err
	}
	if err := m.saveDonationLocked(d); err != nil {
		return err
	}

	now := time.Now()
	for id, sibling := range m.requests {
		if id != r.ID && sibling.DonationID == d.ID && sibling.Status == ds.RequestPending {
			sibling.Status = ds.RequestRejected
			sibling.RejectedAt = &now
			sibling.RejectionReason = "пожертвование передано по другой заявке"
			sibling.Version++
			m.requests[id] = sibling
		}
	}
	return nil
}

func (m *memStore) ExpireDonations(now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var affected int64
	for id, d := range m.donations {
		if d.Status == ds.DonationAvailable && d.ExpiryDate.Before(now) {
			d.Status = ds.DonationExpired
			d.Version++
			m.donations[id] = d
			affected++
		}
	}
	return affected, nil
}

func (m *memStore) saveDonationLocked(d *ds.Donation) error {
	cur, ok := m.donations[d.ID]
	if !ok || cur.Version != d.Version {
		return ErrConflict
	}
	d.Version++
	d.UpdatedAt = time.Now()
	m.donations[d.ID] = *d
	return nil
}

func (m *memStore) saveRequestLocked(r *ds.Request) error {
	cur, ok := m.requests[r.ID]
	if !ok || cur.Version != r.Version {
		return ErrConflict
	}
	r.Version++
	r.UpdatedAt = time.Now()
	m.requests[r.ID] = *r
	return nil
}
