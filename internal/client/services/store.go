package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sumit8974/fintrack-cli/internal/client/api"
	"github.com/sumit8974/fintrack-cli/internal/client/models"
	"github.com/sumit8974/fintrack-cli/internal/client/notify"
	"github.com/sumit8974/fintrack-cli/internal/common"
	"github.com/sumit8974/fintrack-cli/internal/logging"
)

// Identity is the slice of the session the store depends on.
type Identity interface {
	CurrentUser() *models.User
	IsAuthenticated() bool
}

// Store is the authoritative session-scoped cache of transactions,
// categories, and groups, synchronized with the remote API.
//
// Remote mutations follow the optimistic discipline uniformly: the local
// state changes and success feedback fires before the API call, the
// canonical record is reconciled on confirmation, and the exact
// pre-mutation snapshot is restored on failure. A rollback is skipped when
// the store was reset while the call was in flight (a 401 forces a logout
// and must leave the store empty, not resurrect the previous session's
// records). Group operations are local-only and never call the API.
//
// Overlapping in-flight mutations against the same record are
// last-resolved-wins on the local collection; the store does not sequence
// them.
type Store struct {
	mu       sync.Mutex
	client   api.Client
	identity Identity
	notifier notify.Notifier
	logger   logging.Logger

	// epoch is bumped by Reset; a pending rollback captured under an
	// older epoch is stale and must not be applied.
	epoch uint64

	transactions []models.Transaction
	categories   []models.Category
	groups       []models.Group
}

func NewStore(client api.Client, identity Identity, notifier notify.Notifier, logger logging.Logger) *Store {
	return &Store{
		client:   client,
		identity: identity,
		notifier: notifier,
		logger:   logger,
	}
}

// TransactionInput is the data the caller supplies when adding a
// transaction; id, owner, and timestamp come from the server.
type TransactionInput struct {
	Amount      float64
	Description string
	Category    string
	Type        models.TransactionType
	GroupID     string
}

// TransactionPatch carries only the fields being changed; nil fields are
// left untouched locally and omitted from the API payload.
type TransactionPatch struct {
	Amount      *float64
	Description *string
	Category    *string
	Type        *models.TransactionType
}

// GroupPatch carries the mutable group fields.
type GroupPatch struct {
	Name    *string
	Members *[]string
}

// Load fetches transactions and categories for the authenticated session.
// The two loads are independent: a failure surfaces a notification and
// leaves that collection empty without blocking the other. While anonymous
// the store issues no requests.
func (s *Store) Load(ctx context.Context) {
	if !s.identity.IsAuthenticated() {
		return
	}

	transactions, err := s.client.ListTransactions(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to load transactions", "error", err)
		s.notifier.Error("Error loading transactions", failureDetail(err))
	} else {
		s.mu.Lock()
		s.transactions = transactions
		s.mu.Unlock()
	}

	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to load categories", "error", err)
		s.notifier.Error("Error loading categories", failureDetail(err))
	} else {
		s.mu.Lock()
		s.categories = categories
		s.mu.Unlock()
	}
}

// Reset drops all cached collections and invalidates the rollbacks of any
// in-flight mutations, e.g. after logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.transactions = nil
	s.categories = nil
	s.groups = nil
}

// AddTransaction optimistically inserts the record under a placeholder id,
// then reconciles it with the server-assigned one. Silently no-ops while
// anonymous.
func (s *Store) AddTransaction(ctx context.Context, input TransactionInput) {
	user := s.identity.CurrentUser()
	if user == nil {
		return
	}

	tempID := "temp-" + uuid.NewString()
	optimistic := models.Transaction{
		ID:          tempID,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Date:        time.Now(),
		Type:        input.Type,
		GroupID:     input.GroupID,
		CreatedBy:   user.ID,
	}

	s.mu.Lock()
	epoch := s.epoch
	s.transactions = append([]models.Transaction{optimistic}, s.transactions...)
	s.mu.Unlock()

	title := "Income added"
	if input.Type == models.TransactionTypeExpense {
		title = "Expense added"
	}
	s.notifier.Success(title, fmt.Sprintf("%s - %.2f", input.Description, input.Amount))

	created, err := s.client.CreateTransaction(ctx, api.TransactionRequest{
		Amount:          input.Amount,
		Description:     input.Description,
		CategoryName:    input.Category,
		TransactionType: string(input.Type),
	})
	if err != nil {
		s.mu.Lock()
		if s.epoch == epoch {
			s.transactions = removeByID(s.transactions, tempID)
		}
		s.mu.Unlock()
		s.notifier.Error("Error adding transaction", failureDetail(err))
		return
	}

	canonical := *created
	if canonical.GroupID == "" {
		// group membership is client-side state the server does not track
		canonical.GroupID = input.GroupID
	}

	s.mu.Lock()
	for i := range s.transactions {
		if s.transactions[i].ID == tempID {
			s.transactions[i] = canonical
			break
		}
	}
	s.mu.Unlock()
}

// UpdateTransaction optimistically merges the patch into the matching
// record, then reconciles the server's canonical response by id. On failure
// the pre-mutation snapshot is restored.
func (s *Store) UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) {
	s.mu.Lock()
	epoch := s.epoch
	snapshot := cloneTransactions(s.transactions)
	var merged *models.Transaction
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			applyPatch(&s.transactions[i], patch)
			m := s.transactions[i]
			merged = &m
			break
		}
	}
	s.mu.Unlock()

	desc, amount := "", 0.0
	if merged != nil {
		desc, amount = merged.Description, merged.Amount
	}
	s.notifier.Success("Transaction updated", fmt.Sprintf("%s - %.2f", desc, amount))

	req := api.TransactionPatchRequest{
		Amount:       patch.Amount,
		Description:  patch.Description,
		CategoryName: patch.Category,
	}
	if patch.Type != nil {
		tt := string(*patch.Type)
		req.TransactionType = &tt
	}

	updated, err := s.client.UpdateTransaction(ctx, id, req)
	if err != nil {
		s.mu.Lock()
		if s.epoch == epoch {
			s.transactions = snapshot
		}
		s.mu.Unlock()
		s.notifier.Error("Error updating transaction", failureDetail(err))
		return
	}

	canonical := *updated
	if canonical.GroupID == "" && merged != nil {
		canonical.GroupID = merged.GroupID
	}

	s.mu.Lock()
	for i := range s.transactions {
		if s.transactions[i].ID == canonical.ID {
			s.transactions[i] = canonical
			break
		}
	}
	s.mu.Unlock()
}

// DeleteTransaction optimistically removes the record, restoring the exact
// pre-deletion snapshot if the server rejects the delete.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.mu.Lock()
	epoch := s.epoch
	snapshot := cloneTransactions(s.transactions)
	s.transactions = removeByID(s.transactions, id)
	s.mu.Unlock()

	s.notifier.Success("Transaction deleted", "The transaction has been deleted successfully")

	if err := s.client.DeleteTransaction(ctx, id); err != nil {
		s.mu.Lock()
		if s.epoch == epoch {
			s.transactions = snapshot
		}
		s.mu.Unlock()
		s.notifier.Error("Error deleting transaction", failureDetail(err))
	}
}

// Transactions returns a copy of the current transaction collection.
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTransactions(s.transactions)
}

// Categories returns a copy of the loaded reference categories.
func (s *Store) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// TransactionsByMonth returns the transactions whose date falls in the
// given calendar month and year, in no particular order.
func (s *Store) TransactionsByMonth(month time.Month, year int) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]models.Transaction, 0)
	for _, t := range s.transactions {
		if t.InMonth(month, year) {
			result = append(result, t)
		}
	}
	return result
}

// GroupTransactions returns the transactions belonging to the given group.
func (s *Store) GroupTransactions(groupID string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]models.Transaction, 0)
	for _, t := range s.transactions {
		if t.GroupID == groupID {
			result = append(result, t)
		}
	}
	return result
}

// PersonalTransactions returns the transactions with no group.
func (s *Store) PersonalTransactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]models.Transaction, 0)
	for _, t := range s.transactions {
		if t.IsPersonal() {
			result = append(result, t)
		}
	}
	return result
}

// AddGroup creates a local group, making sure the creator appears in the
// member list exactly once. Silently no-ops while anonymous.
func (s *Store) AddGroup(name string, members []string) models.Group {
	user := s.identity.CurrentUser()
	if user == nil {
		return models.Group{}
	}

	all := make([]string, 0, len(members)+1)
	seen := make(map[string]struct{}, len(members)+1)
	for _, m := range append(append([]string{}, members...), user.ID) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		all = append(all, m)
	}

	group := models.Group{
		ID:        "group-" + uuid.NewString(),
		Name:      name,
		Members:   all,
		CreatedBy: user.ID,
	}

	s.mu.Lock()
	s.groups = append(s.groups, group)
	s.mu.Unlock()

	s.notifier.Success("Group created", fmt.Sprintf("%s has been created with %d members", name, len(all)))
	return group
}

// UpdateGroup merges the patch into the matching group. Purely local.
func (s *Store) UpdateGroup(id string, patch GroupPatch) {
	s.mu.Lock()
	for i := range s.groups {
		if s.groups[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.groups[i].Name = *patch.Name
		}
		if patch.Members != nil {
			s.groups[i].Members = append([]string{}, (*patch.Members)...)
		}
		break
	}
	s.mu.Unlock()

	s.notifier.Success("Group updated", "")
}

// DeleteGroup removes the group and cascade-clears GroupID on every
// referencing transaction. The transactions themselves survive and become
// personal.
func (s *Store) DeleteGroup(id string) {
	s.mu.Lock()
	kept := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	s.groups = kept

	for i := range s.transactions {
		if s.transactions[i].GroupID == id {
			s.transactions[i].GroupID = ""
		}
	}
	s.mu.Unlock()

	s.notifier.Success("Group deleted", "")
}

// GroupByID looks up a group, returning common.ErrorNotFound when absent.
func (s *Store) GroupByID(id string) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Group{}, common.ErrorNotFound
}

// Groups returns a copy of the current group collection.
func (s *Store) Groups() []models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// ---- helpers ----

func cloneTransactions(in []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(in))
	copy(out, in)
	return out
}

func removeByID(in []models.Transaction, id string) []models.Transaction {
	out := make([]models.Transaction, 0, len(in))
	for _, t := range in {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func applyPatch(t *models.Transaction, patch TransactionPatch) {
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
}
