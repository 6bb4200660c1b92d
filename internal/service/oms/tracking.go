package oms

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ReturnsAgent/entity"

	"golang.org/x/oauth2"
)

var ErrInvalidTrackingReference = errors.New("return order number must be numeric")

// ParseTrackingReference validates a user supplied return order number.
func ParseTrackingReference(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidTrackingReference
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, ErrInvalidTrackingReference
	}
	return n, nil
}

func (s *Service) GetTrackingEvents(ctx context.Context, tok *oauth2.Token, tenantCode, email string, trackingRef int64) (*entity.Tracking, error) {
	req, err := s.request(ctx, tok)
	if err != nil {
		return nil, err
	}
	req.SetPathParams(map[string]string{
		"tenant": tenantCode,
		"ref":    strconv.FormatInt(trackingRef, 10),
	}).SetQueryParam("email", email)

	var tracking entity.Tracking
	if err := s.do("get_tracking_events", http.MethodGet, "/api/v1/tenants/{tenant}/returns/{ref}/tracking", req, &tracking); err != nil {
		return nil, err
	}
	return &tracking, nil
}
