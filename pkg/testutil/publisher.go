package testutil

import (
	"context"
	"sync"

	"github.com/loyaltap/backend/pkg/pubsub"
)

// MockPublisher records every published pack per topic.
type MockPublisher struct {
	mutex sync.Mutex
	packs map[string][]*pubsub.Pack

	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{packs: map[string][]*pubsub.Pack{}}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.packs[topic] = append(m.packs[topic], pack)
	return nil
}

func (m *MockPublisher) Published(topic string) []*pubsub.Pack {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.packs[topic]
}
