// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package ulapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/urbanlogiq/london-travel-time/lib/netutil"
)

// Credentials identify the user to the identity provider.
type Credentials struct {
	// ClientID is the application id issued by UrbanLogiq.
	ClientID string
	Username string
	Password string
}

func (credentials Credentials) validate() error {
	switch {
	case credentials.ClientID == "":
		return errors.New("client id is empty")
	case credentials.Username == "":
		return errors.New("username is empty")
	case credentials.Password == "":
		return errors.New("password is empty")
	}
	return nil
}

// Token performs the resource-owner password grant and returns the
// access token. Every failure is an *AuthError; an HTTP failure wraps
// the *RequestError.
func (client *Client) Token(ctx context.Context, credentials Credentials) (string, error) {
	if err := credentials.validate(); err != nil {
		return "", &AuthError{Err: err}
	}

	endpoint, err := url.Parse(client.tokenURL)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	query := endpoint.Query()
	query.Set("p", client.policy)
	query.Set("grant_type", "password")
	query.Set("response_type", "token")
	query.Set("client_id", credentials.ClientID)
	query.Set("username", credentials.Username)
	query.Set("password", credentials.Password)
	query.Set("scope", "openid "+credentials.ClientID)

	endpoint.RawQuery = query.Encode()

	var response struct {
		AccessToken string `json:"access_token"`
	}
	err = client.exchange(ctx, http.MethodPost, endpoint.String(), nil, nil, func(body io.Reader) error {
		return netutil.DecodeResponse(body, &response)
	})
	if err != nil {
		return "", &AuthError{Err: err}
	}
	if response.AccessToken == "" {
		return "", &AuthError{Err: errors.New("token response has no access_token")}
	}

	client.logger.Info("obtained access token", "client_id", credentials.ClientID, "username", credentials.Username)
	return response.AccessToken, nil
}
