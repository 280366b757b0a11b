package auth

import (
	"strings"

	"github.com/frahmantamala/care-roster/internal"
)

// LoginDTO is the transport shape for password login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if dto.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// SSOCallbackDTO is what an identity-provider callback reduces to once the
// provider handshake has produced a verified profile: the provider never
// hands us anything the core trusts beyond this.
type SSOCallbackDTO struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (dto SSOCallbackDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return internal.NewValidationFieldError("email", "no email returned from identity provider", internal.ErrCodeMissingProviderEmail)
	}
	return nil
}

// RefreshTokenDTO carries a refresh token exchange request.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return internal.NewValidationFieldError("refresh_token", "refresh token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
