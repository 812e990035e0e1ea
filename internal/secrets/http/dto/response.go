package dto

import (
	"time"

	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

// DecryptResponse is the success body of the retrieval endpoint.
type DecryptResponse struct {
	DecryptedValue string `json:"decryptedValue"`
}

// GatewayErrorResponse is the error body of the retrieval endpoint.
type GatewayErrorResponse struct {
	Error string `json:"error"`
}

// SecretResponse describes a stored secret. It never carries the value.
type SecretResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	VisibleTo []string  `json:"visible_to"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapSecretToResponse converts a domain secret to a response.
func MapSecretToResponse(secret *secretsDomain.Secret) SecretResponse {
	visibleTo := secret.VisibleTo
	if visibleTo == nil {
		visibleTo = []string{}
	}
	return SecretResponse{
		ID:        secret.ID,
		Name:      secret.Name,
		VisibleTo: visibleTo,
		CreatedAt: secret.CreatedAt,
		UpdatedAt: secret.UpdatedAt,
	}
}

// ListSecretsResponse represents a paginated list of secrets.
type ListSecretsResponse struct {
	Data []SecretResponse `json:"data"`
}

// MapSecretsToListResponse converts domain secrets to a list response.
func MapSecretsToListResponse(secrets []*secretsDomain.Secret) ListSecretsResponse {
	data := make([]SecretResponse, 0, len(secrets))
	for _, secret := range secrets {
		data = append(data, MapSecretToResponse(secret))
	}
	return ListSecretsResponse{Data: data}
}
