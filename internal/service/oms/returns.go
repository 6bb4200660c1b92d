package oms

import (
	"context"
	"net/http"

	"ReturnsAgent/entity"

	"golang.org/x/oauth2"
)

type searchReturnMethodsRequest struct {
	ReturnItems []entity.ReturnItem `json:"returnItems"`
}

type searchReturnMethodsResponse struct {
	ReturnMethods []entity.ReturnMethod `json:"returnMethods"`
}

func (s *Service) SearchReturnMethods(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference string, itemIDs []string) ([]entity.ReturnMethod, error) {
	req, err := s.request(ctx, tok)
	if err != nil {
		return nil, err
	}
	body := searchReturnMethodsRequest{ReturnItems: make([]entity.ReturnItem, 0, len(itemIDs))}
	for _, id := range itemIDs {
		body.ReturnItems = append(body.ReturnItems, entity.ReturnItem{ID: id})
	}
	req.SetPathParams(map[string]string{"tenant": tenantCode, "order": orderReference}).SetBody(body)

	var res searchReturnMethodsResponse
	if err := s.do("search_return_methods", http.MethodPost, "/api/v1/tenants/{tenant}/orders/{order}/return-methods/search", req, &res); err != nil {
		return nil, err
	}
	return res.ReturnMethods, nil
}

type createReturnOrderResponse struct {
	ReturnOrderNumber string `json:"returnOrderNumber"`
}

// CreateReturnOrder submits the return and yields its return order number.
func (s *Service) CreateReturnOrder(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference string, body *entity.CreateReturnOrder) (string, error) {
	req, err := s.request(ctx, tok)
	if err != nil {
		return "", err
	}
	req.SetPathParams(map[string]string{"tenant": tenantCode, "order": orderReference}).SetBody(body)

	var res createReturnOrderResponse
	if err := s.do("create_return_order", http.MethodPost, "/api/v1/tenants/{tenant}/orders/{order}/returns", req, &res); err != nil {
		return "", err
	}
	if res.ReturnOrderNumber == "" {
		return "", &Error{Operation: "create_return_order", StatusCode: http.StatusOK}
	}
	return res.ReturnOrderNumber, nil
}
