// Package api implements the HTTP adapter for the fintrack REST API.
//
// All calls go through a single request pipeline that attaches the bearer
// token from the token store and maps failure responses onto the shared
// error taxonomy. A 401 from any endpoint clears the stored token and fires
// the registered unauthorized handler before the error is propagated, so no
// other component needs to duplicate that policy.
package api

import (
	"context"

	"github.com/sumit8974/fintrack-cli/internal/client/models"
)

// Client is the remote API surface consumed by the services layer.
//
// Contract:
//   - Login: exchange credentials for a bearer token (no local side effects).
//   - Register: create an account; the caller stays unauthenticated until
//     the account is activated and logged in.
//   - Profile: fetch the caller's identity; an explicit token overrides the
//     token store for the duration of the call.
//   - Transaction/category calls require an authenticated session.
//   - Account-lifecycle calls (activate, password reset) are unauthenticated.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, username, email, password string) error
	Profile(ctx context.Context, token string) (*models.User, error)

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, req TransactionRequest) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, req TransactionPatchRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]models.Category, error)

	ActivateAccount(ctx context.Context, activationToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, resetToken string) error
	ResetPassword(ctx context.Context, resetToken, password string) error

	Close() error
}

// TransactionRequest is the mutation payload accepted by the transactions
// endpoints. Only these four fields are writable through the API.
type TransactionRequest struct {
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	CategoryName    string  `json:"categoryName"`
	TransactionType string  `json:"transactionType"`
}

// TransactionPatchRequest is the partial-update payload: nil fields are
// omitted from the wire so the server leaves them unchanged.
type TransactionPatchRequest struct {
	Amount          *float64 `json:"amount,omitempty"`
	Description     *string  `json:"description,omitempty"`
	CategoryName    *string  `json:"categoryName,omitempty"`
	TransactionType *string  `json:"transactionType,omitempty"`
}
