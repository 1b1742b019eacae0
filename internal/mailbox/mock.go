package mailbox

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMailbox struct {
	mock.Mock
}

func (m *MockMailbox) Enqueue(ctx context.Context, userId int, entry Entry) error {
	args := m.Called(ctx, userId, entry)
	return args.Error(0)
}

func (m *MockMailbox) Drain(ctx context.Context, userId int) ([]Entry, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).([]Entry), args.Error(1)
}

func (m *MockMailbox) Len(ctx context.Context, userId int) (int64, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).(int64), args.Error(1)
}
