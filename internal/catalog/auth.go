package catalog

import (
	"context"
	"errors"
	"net/http"
)

// Tokens are the JWT pair handed out by the backend on login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	UserID  int64  `json:"userId,omitempty"`
}

// TokenStore keeps the credentials of the signed in user.
type TokenStore interface {
	// LoadTokens returns nil when nobody is signed in.
	LoadTokens(ctx context.Context) (*Tokens, error)
	SaveAccessToken(ctx context.Context, access string) error
}

// StaticToken authenticates every request with a fixed access token.
type StaticToken string

func (t StaticToken) LoadTokens(context.Context) (*Tokens, error) {
	if t == "" {
		return nil, nil
	}
	return &Tokens{Access: string(t)}, nil
}

func (t StaticToken) SaveAccessToken(context.Context, string) error {
	return errors.New("a configured token cannot be renewed")
}

// User is an account of the backend.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{username, email, password}

	user := new(User)
	err := c.do(ctx, call{method: http.MethodPost, path: "/user/register/", body: body, public: true}, user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login exchanges a username and password for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*Tokens, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	tokens := new(Tokens)
	err := c.do(ctx, call{method: http.MethodPost, path: "/token/", body: body, public: true}, tokens)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// RefreshToken returns a new access token for a refresh token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	body := struct {
		Refresh string `json:"refresh"`
	}{refresh}

	var resp struct {
		Access string `json:"access"`
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/token/refresh/", body: body, public: true}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", errors.New("refresh response carries no access token")
	}
	return resp.Access, nil
}
