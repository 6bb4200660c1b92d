package oms

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

type loginRequest struct {
	TenantCode     string `json:"tenantCode"`
	OrderReference string `json:"orderReference"`
	Email          string `json:"email"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
}

// Authenticate exchanges the shopper's order credentials for a bearer token.
// The token expires after the backend's expiresIn, else after the configured
// TTL; a zero TTL means the token does not expire.
func (s *Service) Authenticate(ctx context.Context, tenantCode, orderReference, email string) (*oauth2.Token, error) {
	var res loginResponse
	req := s.client.R().
		SetContext(ctx).
		SetBody(loginRequest{TenantCode: tenantCode, OrderReference: orderReference, Email: email})

	if err := s.do("login", http.MethodPost, "/api/v1/login", req, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, &Error{Operation: "login", StatusCode: http.StatusOK}
	}

	tok := &oauth2.Token{AccessToken: res.Token, TokenType: "Bearer"}
	switch {
	case res.ExpiresIn > 0:
		tok.Expiry = time.Now().Add(time.Duration(res.ExpiresIn) * time.Second)
	case s.tokenTTL > 0:
		tok.Expiry = time.Now().Add(s.tokenTTL)
	}
	return tok, nil
}
