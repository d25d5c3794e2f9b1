package mangadexapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTokenLifetime = 15 * time.Minute

// SetAuth stores the credentials used by Authenticate and RefreshToken.
func (c *Client) SetAuth(form AuthForm) {
	if form.GrantType == "" {
		form.GrantType = "password"
	}
	c.auth = form
}

func (c *Client) Authenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", c.auth.GrantType)
	form.Set("username", c.auth.Username)
	form.Set("password", c.auth.Password)
	form.Set("client_id", c.auth.ClientID)
	form.Set("client_secret", c.auth.ClientSecret)

	token, err := c.requestToken(ctx, form)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	c.token = token
	return nil
}

func (c *Client) RefreshToken(ctx context.Context) error {
	if c.token == nil || c.token.RefreshToken == "" {
		return fmt.Errorf("refresh token: %w", ErrUnauthorized)
	}
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.token.RefreshToken)
	form.Set("client_id", c.auth.ClientID)
	form.Set("client_secret", c.auth.ClientSecret)

	token, err := c.requestToken(ctx, form)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	if token.AccessToken != "" {
		c.token.AccessToken = token.AccessToken
	}
	if token.RefreshToken != "" {
		c.token.RefreshToken = token.RefreshToken
	}
	c.token.Expiry = token.Expiry
	return nil
}

// EnsureToken refreshes the access token when it expires within a minute.
func (c *Client) EnsureToken(ctx context.Context) error {
	if c.token == nil {
		return ErrUnauthorized
	}
	if time.Until(c.token.Expiry) < time.Minute {
		return c.RefreshToken(ctx)
	}
	return nil
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%s: %s: %w", resp.Status, string(b), ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %s", resp.Status, string(b))
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("empty access token: %w", ErrUnauthorized)
	}
	lifetime := defaultTokenLifetime
	if token.ExpiresIn > 0 {
		lifetime = time.Duration(token.ExpiresIn) * time.Second
	}
	token.Expiry = time.Now().Add(lifetime)
	return &token, nil
}
