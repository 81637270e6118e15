package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// AccountService handles account-related business logic
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates a new account service instance
func NewAccountService(db *gorm.DB) AccountServicer {
	return &AccountService{db: db}
}

// CreateAccount creates a new account. The initial balance is recorded once
// and never mutated afterwards; the current balance is always derived.
func (s *AccountService) CreateAccount(name, icon string, initialBalance int64) (*models.Account, error) {
	account := models.Account{
		Name:           name,
		Icon:           icon,
		InitialBalance: initialBalance,
		IsActive:       true,
	}

	if err := s.db.Create(&account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &account, nil
}

// GetAccounts retrieves accounts with pagination. Inactive accounts are
// excluded unless includeInactive is set.
func (s *AccountService) GetAccounts(page pagination.PageRequest, includeInactive bool) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var accounts []models.Account
	var total int64

	query := s.db.Model(&models.Account{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := query.Scopes(pagination.Paginate(page)).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	response := pagination.NewPageResponse(accounts, page.Page, page.PageSize, total)
	return &response, nil
}

// GetAccountByID retrieves a single account by its ID
func (s *AccountService) GetAccountByID(accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount applies a partial update to an account
func (s *AccountService) UpdateAccount(accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Icon != nil {
		updates["icon"] = *fields.Icon
	}
	if fields.InitialBalance != nil {
		updates["initial_balance"] = *fields.InitialBalance
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) == 0 {
		return account, nil
	}

	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// DeleteAccount removes an account when it has no ledger history. An account
// with history keeps its transactions intact: at a zero derived balance it is
// toggled between active and inactive, and at a non-zero balance the request
// is rejected so funds are moved out first.
func (s *AccountService) DeleteAccount(accountID string) (AccountDeleteOutcome, error) {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return "", err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("account_id = ? OR destination_account_id = ?", accountID, accountID).
		Count(&count).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if count == 0 {
		if err := s.db.Unscoped().Delete(account).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return AccountDeleted, nil
	}

	balance, err := s.derivedBalance(account)
	if err != nil {
		return "", err
	}

	if balance != 0 {
		return "", apperrors.ErrAccountHasBalance
	}

	account.IsActive = !account.IsActive
	if err := s.db.Model(account).Update("is_active", account.IsActive).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if account.IsActive {
		return AccountReactivated, nil
	}
	return AccountDeactivated, nil
}

// derivedBalance folds every transaction touching the account over its
// initial balance. Transfers subtract on the source side and add on the
// destination side.
func (s *AccountService) derivedBalance(account *models.Account) (int64, error) {
	var transactions []models.Transaction
	if err := s.db.
		Where("account_id = ? OR destination_account_id = ?", account.ID, account.ID).
		Find(&transactions).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := account.InitialBalance
	for _, tx := range transactions {
		switch {
		case tx.AccountID == account.ID && tx.Type == models.TransactionTypeIncome:
			balance += tx.Amount
		case tx.AccountID == account.ID:
			balance -= tx.Amount
		case tx.DestinationAccountID != nil && *tx.DestinationAccountID == account.ID:
			balance += tx.Amount
		}
	}
	return balance, nil
}
