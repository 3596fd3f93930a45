// internal/workers/recruiting/withdraw-application/models.go
package withdrawapplication

type Input struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	UserID        string `json:"userId" validate:"required"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Withdrawn     bool   `json:"withdrawn"`
}
