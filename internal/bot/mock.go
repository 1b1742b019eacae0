package bot

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmchat/dmserver/internal/types"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, chatId int64, text string) error {
	args := m.Called(ctx, chatId, text)
	return args.Error(0)
}

type MockSubscriberSource struct {
	mock.Mock
}

func (m *MockSubscriberSource) ListSubscribedUsers(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]types.User), args.Error(1)
}
