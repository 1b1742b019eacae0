package database

type DMRepository interface {
	Ping() error
	CreateUser(params CreateUserParams) (User, error)
	GetUserById(userId int) (User, error)
	GetUserByUsername(username string) (User, error)
	GetUserByAuthToken(token string) (User, error)
	GetUserByBotUsername(botUsername string) (User, error)
	UpdateAuthToken(userId int, token string) (User, error)
	SubscribeUser(botUsername string, chatId int64) (User, error)
	ListUsers(subscribedOnly bool) ([]User, error)
	CreateMessage(msg Message) (Message, error)
	GetConversation(userId, peerId, limit int) ([]Message, error)
}
