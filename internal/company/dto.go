package company

import "github.com/frahmantamala/timechronos/internal"

// UpdateCompanyDTO is the allow-listed patch for a company: only the name
// can change through the API.
type UpdateCompanyDTO struct {
	Name *string `json:"name,omitempty"`
}

func (dto UpdateCompanyDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return internal.NewValidationError("company name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
