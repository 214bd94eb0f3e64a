package services

import (
	"context"

	"github.com/sumit8974/fintrack-cli/internal/client/api"
	"github.com/sumit8974/fintrack-cli/internal/client/models"
)

// fakeClient implements api.Client for service unit tests: canned results,
// call counters, and last-argument capture.
type fakeClient struct {
	LoginToken        string
	LoginErr          error
	LoginCalls        int
	LastLoginEmail    string
	LastLoginPassword string

	RegisterErr   error
	RegisterCalls int

	ProfileUser      *models.User
	ProfileErr       error
	LastProfileToken string

	ListTransactionsRet   []models.Transaction
	ListTransactionsErr   error
	ListTransactionsCalls int

	CreateRet     *models.Transaction
	CreateErr     error
	CreateHook    func()
	LastCreateReq api.TransactionRequest

	UpdateRet     *models.Transaction
	UpdateErr     error
	UpdateHook    func()
	LastUpdateID  string
	LastUpdateReq api.TransactionPatchRequest

	DeleteErr    error
	DeleteHook   func()
	DeleteCalls  int
	LastDeleteID string

	ListCategoriesRet   []models.Category
	ListCategoriesErr   error
	ListCategoriesCalls int

	ActivateErr      error
	ForgotErr        error
	ValidateResetErr error
	ResetErr         error
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.LoginCalls++
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginToken, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, username, email, password string) error {
	f.RegisterCalls++
	return f.RegisterErr
}

func (f *fakeClient) Profile(ctx context.Context, tok string) (*models.User, error) {
	f.LastProfileToken = tok
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	u := *f.ProfileUser
	return &u, nil
}

func (f *fakeClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	f.ListTransactionsCalls++
	if f.ListTransactionsErr != nil {
		return nil, f.ListTransactionsErr
	}
	return append([]models.Transaction(nil), f.ListTransactionsRet...), nil
}

func (f *fakeClient) CreateTransaction(ctx context.Context, req api.TransactionRequest) (*models.Transaction, error) {
	f.LastCreateReq = req
	if f.CreateHook != nil {
		f.CreateHook()
	}
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	t := *f.CreateRet
	return &t, nil
}

func (f *fakeClient) UpdateTransaction(ctx context.Context, id string, req api.TransactionPatchRequest) (*models.Transaction, error) {
	f.LastUpdateID, f.LastUpdateReq = id, req
	if f.UpdateHook != nil {
		f.UpdateHook()
	}
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	t := *f.UpdateRet
	return &t, nil
}

func (f *fakeClient) DeleteTransaction(ctx context.Context, id string) error {
	f.DeleteCalls++
	f.LastDeleteID = id
	if f.DeleteHook != nil {
		f.DeleteHook()
	}
	return f.DeleteErr
}

func (f *fakeClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	f.ListCategoriesCalls++
	if f.ListCategoriesErr != nil {
		return nil, f.ListCategoriesErr
	}
	return append([]models.Category(nil), f.ListCategoriesRet...), nil
}

func (f *fakeClient) ActivateAccount(ctx context.Context, activationToken string) error {
	return f.ActivateErr
}

func (f *fakeClient) ForgotPassword(ctx context.Context, email string) error {
	return f.ForgotErr
}

func (f *fakeClient) ValidateResetToken(ctx context.Context, resetToken string) error {
	return f.ValidateResetErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, resetToken, password string) error {
	return f.ResetErr
}

func (f *fakeClient) Close() error { return nil }
