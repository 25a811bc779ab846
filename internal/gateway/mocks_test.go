package gateway_test

import (
	"github.com/terrence3333/Mindconnect-Demo/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the storage.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) AppendMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStore) RecentMessages(roomID string, limit int) ([]models.Message, error) {
	args := m.Called(roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStore) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) PublishMessage(env models.Envelope) error {
	args := m.Called(env)
	return args.Error(0)
}

func (m *MockStore) Subscribe() <-chan *redis.Message {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(<-chan *redis.Message)
}

// fakeClient is an in-memory gateway.Client that records delivered events.
type fakeClient struct {
	id     string
	name   string
	events chan models.OutboundEvent
	closed bool
}

func newFakeClient(id, name string) *fakeClient {
	return &fakeClient{
		id:     id,
		name:   name,
		events: make(chan models.OutboundEvent, 32),
	}
}

// newStuckClient has no buffer at all, so every delivery fails.
func newStuckClient(id, name string) *fakeClient {
	return &fakeClient{
		id:     id,
		name:   name,
		events: make(chan models.OutboundEvent),
	}
}

func (c *fakeClient) UserID() string   { return c.id }
func (c *fakeClient) UserName() string { return c.name }

func (c *fakeClient) Deliver(ev models.OutboundEvent) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

func (c *fakeClient) Close() {
	c.closed = true
}

// drain returns every event delivered so far.
func (c *fakeClient) drain() []models.OutboundEvent {
	var events []models.OutboundEvent
	for {
		select {
		case ev := <-c.events:
			events = append(events, ev)
		default:
			return events
		}
	}
}
