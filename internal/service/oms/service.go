package oms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/sl"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const OrderFilterNotReturned = "not-returned"

// Gateway is the order management surface the dialog flows use.
type Gateway interface {
	Authenticate(ctx context.Context, tenantCode, orderReference, email string) (*oauth2.Token, error)
	GetOrder(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference, filter string) (*entity.Order, error)
	GetCountryConfig(ctx context.Context, tok *oauth2.Token, tenantCode, countryIso string) (*entity.CountryConfiguration, error)
	SearchReturnMethods(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference string, itemIDs []string) ([]entity.ReturnMethod, error)
	CreateReturnOrder(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference string, req *entity.CreateReturnOrder) (string, error)
	GetTrackingEvents(ctx context.Context, tok *oauth2.Token, tenantCode, email string, trackingRef int64) (*entity.Tracking, error)
}

var ErrNotAuthenticated = errors.New("oms: missing or expired token")

// Error is a failed backend call: transport failure, non-2xx status or an
// empty payload.
type Error struct {
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("oms %s: %v", e.Operation, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("oms %s: status %d", e.Operation, e.StatusCode)
	default:
		return fmt.Sprintf("oms %s: empty response", e.Operation)
	}
}

func (e *Error) Unwrap() error { return e.Err }

type Observer interface {
	ObserveBackend(operation string, err error, elapsed time.Duration)
}

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Retries  int
	TokenTTL time.Duration
}

type Service struct {
	client   *resty.Client
	tokenTTL time.Duration
	metrics  Observer
	log      *slog.Logger
}

func NewService(conf Config, metrics Observer, log *slog.Logger) *Service {
	if conf.Timeout == 0 {
		conf.Timeout = 20 * time.Second
	}
	client := resty.New().
		SetBaseURL(conf.BaseURL).
		SetTimeout(conf.Timeout).
		SetRetryCount(conf.Retries).
		SetRetryWaitTime(200*time.Millisecond).
		AddRetryCondition(idempotentOnly).
		SetHeader("Accept", "application/json").
		SetLogger(sl.Printf{Log: log.With(sl.Module("oms.resty"))})

	return &Service{
		client:   client,
		tokenTTL: conf.TokenTTL,
		metrics:  metrics,
		log:      log.With(sl.Module("oms")),
	}
}

// idempotentOnly retries transport failures of reads. Login and return
// creation are POSTs and must reach the backend at most once per turn.
func idempotentOnly(resp *resty.Response, err error) bool {
	if err == nil || resp == nil || resp.Request == nil {
		return false
	}
	return resp.Request.Method == http.MethodGet
}

// request prepares an authorised request. Invalid tokens never hit the wire.
func (s *Service) request(ctx context.Context, tok *oauth2.Token) (*resty.Request, error) {
	if !tok.Valid() {
		return nil, ErrNotAuthenticated
	}
	return s.client.R().
		SetContext(ctx).
		SetAuthScheme(tok.Type()).
		SetAuthToken(tok.AccessToken), nil
}

// do executes req and decodes a 2xx JSON body into result.
func (s *Service) do(operation, method, url string, req *resty.Request, result any) (err error) {
	log := s.log.With(
		slog.String("operation", operation),
		slog.String("method", method),
		slog.String("url", url),
	)
	t := time.Now()
	defer func() {
		elapsed := time.Since(t)
		if s.metrics != nil {
			s.metrics.ObserveBackend(operation, err, elapsed)
		}
		log = log.With(slog.Duration("duration", elapsed))
		if err != nil {
			log.Error("oms request", sl.Err(err))
		} else {
			log.Debug("oms request")
		}
	}()

	resp, err := req.SetResult(result).Execute(method, url)
	if err != nil {
		return &Error{Operation: operation, Err: err}
	}
	if resp.IsError() {
		return &Error{Operation: operation, StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if len(resp.Body()) == 0 {
		return &Error{Operation: operation, StatusCode: resp.StatusCode()}
	}
	return nil
}
