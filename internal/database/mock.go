package database

import (
	"github.com/stretchr/testify/mock"
)

type MockDMRepository struct {
	mock.Mock
}

func (m *MockDMRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockDMRepository) CreateUser(params CreateUserParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockDMRepository) GetUserById(userId int) (User, error) {
	args := m.Called(userId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockDMRepository) GetUserByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockDMRepository) GetUserByAuthToken(token string) (User, error) {
	args := m.Called(token)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockDMRepository) GetUserByBotUsername(botUsername string) (User, error) {
	args := m.Called(botUsername)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockDMRepository) UpdateAuthToken(userId int, token string) (User, error) {
	args := m.Called(userId, token)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockDMRepository) SubscribeUser(botUsername string, chatId int64) (User, error) {
	args := m.Called(botUsername, chatId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockDMRepository) ListUsers(subscribedOnly bool) ([]User, error) {
	args := m.Called(subscribedOnly)
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockDMRepository) CreateMessage(msg Message) (Message, error) {
	args := m.Called(msg)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockDMRepository) GetConversation(userId, peerId, limit int) ([]Message, error) {
	args := m.Called(userId, peerId, limit)
	return args.Get(0).([]Message), args.Error(1)
}
