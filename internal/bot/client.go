package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmchat/dmserver/internal/types"
)

// ErrUserNotFound is returned when the chat API does not know the user.
var ErrUserNotFound = errors.New("user not found")

const requestTimeout = 10 * time.Second

// ApiClient talks to the chat server's HTTP API on behalf of the bot.
type ApiClient struct {
	baseURL string
	http    *http.Client
}

func NewApiClient(baseURL string) *ApiClient {
	return &ApiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *ApiClient) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if v == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *ApiClient) GetUserByBotUsername(ctx context.Context, botUsername string) (*types.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/users/bot/"+url.PathEscape(botUsername), nil)
	if err != nil {
		return nil, err
	}

	var user types.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *ApiClient) SubscribeUser(ctx context.Context, botUsername string, chatId int64) (*types.User, error) {
	body, err := json.Marshal(map[string]int64{"chat_id": chatId})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/subscriptions/"+url.PathEscape(botUsername), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var user types.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *ApiClient) ListSubscribedUsers(ctx context.Context) ([]types.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/users?subscribed=true", nil)
	if err != nil {
		return nil, err
	}

	var users []types.User
	if err := c.do(req, &users); err != nil {
		return nil, err
	}

	return users, nil
}
