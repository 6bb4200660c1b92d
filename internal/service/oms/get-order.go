package oms

import (
	"context"
	"fmt"
	"net/http"

	"ReturnsAgent/entity"

	"golang.org/x/oauth2"
)

func (s *Service) GetOrder(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference, filter string) (*entity.Order, error) {
	req, err := s.request(ctx, tok)
	if err != nil {
		return nil, err
	}
	if filter != "" {
		req.SetQueryParam("filter", filter)
	}
	req.SetPathParams(map[string]string{"tenant": tenantCode, "order": orderReference})

	var order entity.Order
	if err := s.do("get_order", http.MethodGet, "/api/v1/tenants/{tenant}/orders/{order}", req, &order); err != nil {
		return nil, err
	}
	if order.OrderReference == "" && len(order.Items) == 0 {
		return nil, &Error{Operation: "get_order", Err: fmt.Errorf("order %s not found", orderReference)}
	}
	return &order, nil
}

func (s *Service) GetCountryConfig(ctx context.Context, tok *oauth2.Token, tenantCode, countryIso string) (*entity.CountryConfiguration, error) {
	req, err := s.request(ctx, tok)
	if err != nil {
		return nil, err
	}
	req.SetPathParams(map[string]string{"tenant": tenantCode, "country": countryIso})

	var conf entity.CountryConfiguration
	if err := s.do("get_country_config", http.MethodGet, "/api/v1/tenants/{tenant}/country-configurations/{country}", req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}
