package storefront

import (
	"context"
	"sync"

	"gofalre.io/storefront/models"
	"gofalre.io/storefront/models/enum"
)

type mockLocalStore struct {
	m       sync.Mutex
	cart    models.Cart
	present bool
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (m *mockLocalStore) Load(context.Context) (models.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.loadErr != nil {
		return models.NewCart(), m.loadErr
	}
	if !m.present {
		return models.NewCart(), nil
	}
	return m.cart.Clone(), nil
}

func (m *mockLocalStore) Save(_ context.Context, cart models.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cart = cart.Clone()
	m.present = true
	return nil
}

func (m *mockLocalStore) Clear(context.Context) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.clears++
	m.cart = nil
	m.present = false
	return nil
}

func (m *mockLocalStore) stored() (models.Cart, bool) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.cart.Clone(), m.present
}

type mockRemoteRepository struct {
	m        sync.Mutex
	carts    map[string]models.Cart
	getErr   error
	writeErr error
	writes   int
}

func newMockRemote() *mockRemoteRepository {
	return &mockRemoteRepository{carts: make(map[string]models.Cart)}
}

func (m *mockRemoteRepository) GetCart(_ context.Context, userID string) (models.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.carts[userID]
	if !ok {
		return models.NewCart(), nil
	}
	return c.Clone(), nil
}

func (m *mockRemoteRepository) UpdateCart(_ context.Context, userID string, cart models.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.carts[userID] = cart.Clone()
	return nil
}

func (m *mockRemoteRepository) cartOf(userID string) models.Cart {
	m.m.Lock()
	defer m.m.Unlock()
	return m.carts[userID].Clone()
}

func (m *mockRemoteRepository) setWriteErr(err error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.writeErr = err
}

type notice struct {
	level   enum.NoticeLevel
	message string
}

type recordingNotifier struct {
	m       sync.Mutex
	notices []notice
}

func (r *recordingNotifier) Notify(_ context.Context, level enum.NoticeLevel, message string) {
	r.m.Lock()
	defer r.m.Unlock()
	r.notices = append(r.notices, notice{level: level, message: message})
}

func (r *recordingNotifier) last() notice {
	r.m.Lock()
	defer r.m.Unlock()
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}
