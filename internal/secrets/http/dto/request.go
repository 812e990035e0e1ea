// Package dto provides data transfer objects for the secret API.
package dto

import (
	validation "github.com/jellydator/validation"

	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
	customValidation "github.com/allisson/secretgate/internal/validation"
)

// SecretRequest is the body of POST /v1/secrets and PUT /v1/secrets/:id.
type SecretRequest struct {
	Name      string   `json:"name"`
	Value     string   `json:"value"`
	VisibleTo []string `json:"visible_to"`
}

// Validate checks if the secret request is valid.
func (r *SecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Value,
			validation.Required,
		),
		validation.Field(&r.VisibleTo,
			validation.Each(validation.Required, customValidation.Email),
		),
	)
}

// ToInput converts the request to the use case input. The caller owns the
// returned Value bytes and should zero them after use.
func (r *SecretRequest) ToInput() *secretsDomain.SecretInput {
	visibleTo := r.VisibleTo
	if visibleTo == nil {
		visibleTo = []string{}
	}
	return &secretsDomain.SecretInput{
		Name:      r.Name,
		Value:     []byte(r.Value),
		VisibleTo: visibleTo,
	}
}

// ValidateSecretID checks a caller chosen secret identifier.
func ValidateSecretID(id string) error {
	return validation.Validate(id, validation.Required, customValidation.Identifier)
}
