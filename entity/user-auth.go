package entity

import (
	"net/http"

	"ReturnsAgent/internal/lib/validate"
)

// UserAuth is the API client a bearer token belongs to.
type UserAuth struct {
	Username string `json:"username" bson:"username"`
	Token    string `json:"token,omitempty" bson:"token"`
}

// KeyRequest asks for a new API key.
type KeyRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
}

func (k *KeyRequest) Bind(_ *http.Request) error {
	return validate.Struct(k)
}
