package models

import (
	"context"
	"errors"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClientService is one recurring or one-time engagement billed to a client.
// Amounts are GST-exclusive monthly/one-time base rates.
type ClientService struct {
	ID            int              `gorm:"primaryKey" json:"id"`
	ClientId      int              `gorm:"not null;index" json:"client_id"`
	Kind          ServiceKind      `gorm:"size:30;not null" json:"kind"`
	AmountMonthly decimal.Decimal  `gorm:"type:decimal(13,2);not null;default:0" json:"amount_monthly"`
	AmountOneTime decimal.Decimal  `gorm:"type:decimal(13,2);not null;default:0" json:"amount_one_time"`
	BillingType   BillingType      `gorm:"size:10;not null" json:"billing_type"`
	StartDate     time.Time        `gorm:"not null" json:"start_date"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	Notes         string           `gorm:"size:255" json:"notes"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type Client struct {
	ID             int             `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Email          string          `gorm:"size:100" json:"email"`
	Phone          string          `gorm:"size:30" json:"phone"`
	Address        string          `gorm:"size:255" json:"address"`
	Gstin          string          `gorm:"size:20" json:"gstin"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"opening_balance"`
	Services       []ClientService `gorm:"foreignKey:ClientId" json:"services"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClientService struct {
	Kind          ServiceKind     `json:"kind" binding:"required"`
	AmountMonthly decimal.Decimal `json:"amount_monthly"`
	AmountOneTime decimal.Decimal `json:"amount_one_time"`
	BillingType   BillingType     `json:"billing_type" binding:"required"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	Notes         string          `json:"notes"`
}

type NewClient struct {
	Name           string             `json:"name" binding:"required"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	Gstin          string             `json:"gstin"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	Services       []NewClientService `json:"services"`
}

// CreateClient stores the client and, when an opening balance is declared,
// posts the OPENING ledger entry in the same transaction. The opening entry
// is always the account's first, so its balanceAfter is the opening balance
// itself (DEBIT when the client owes us, CREDIT when we hold their money).
func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	client := Client{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Address:        input.Address,
		Gstin:          input.Gstin,
		OpeningBalance: input.OpeningBalance.Round(2),
	}
	for _, s := range input.Services {
		client.Services = append(client.Services, ClientService{
			Kind:          s.Kind,
			AmountMonthly: s.AmountMonthly.Round(2),
			AmountOneTime: s.AmountOneTime.Round(2),
			BillingType:   s.BillingType,
			StartDate:     s.StartDate,
			ExpiryDate:    s.ExpiryDate,
			Notes:         s.Notes,
		})
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&client).Error; err != nil {
			return err
		}
		if !client.OpeningBalance.IsZero() {
			entryType := LedgerEntryTypeDebit
			if client.OpeningBalance.IsNegative() {
				entryType = LedgerEntryTypeCredit
			}
			opening := LedgerEntry{
				AccountKind:  AccountKindClient,
				AccountId:    client.ID,
				Date:         time.Now(),
				Type:         entryType,
				Amount:       client.OpeningBalance.Abs(),
				BalanceAfter: client.OpeningBalance,
				RefType:      LedgerRefTypeOpening,
				Remarks:      "Opening balance",
			}
			if err := tx.Create(&opening).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// AddClientService appends a service to an existing client.
func AddClientService(ctx context.Context, clientId int, input *NewClientService) (*ClientService, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	db := config.GetDB()
	if _, err := GetClient(ctx, clientId); err != nil {
		return nil, err
	}
	service := ClientService{
		ClientId:      clientId,
		Kind:          input.Kind,
		AmountMonthly: input.AmountMonthly.Round(2),
		AmountOneTime: input.AmountOneTime.Round(2),
		BillingType:   input.BillingType,
		StartDate:     input.StartDate,
		ExpiryDate:    input.ExpiryDate,
		Notes:         input.Notes,
	}
	if err := db.WithContext(ctx).Create(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	db := config.GetDB()
	return getClient(db.WithContext(ctx), id)
}

func GetClientTx(tx *gorm.DB, id int) (*Client, error) {
	return getClient(tx, id)
}

func getClient(tx *gorm.DB, id int) (*Client, error) {
	var client Client
	err := tx.Preload("Services").First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeClientNotFound, "client not found")
		}
		return nil, err
	}
	return &client, nil
}

// ClientBalance is one row of the all-clients balance summary.
type ClientBalance struct {
	ClientId int             `json:"client_id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
}

// ListClientBalances returns every client with their derived ledger
// balance; clients with no entries show zero.
func ListClientBalances(ctx context.Context) ([]ClientBalance, error) {
	db := config.GetDB()
	var clients []Client
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	balances, err := AccountBalancesByKind(ctx, AccountKindClient)
	if err != nil {
		return nil, err
	}
	rows := make([]ClientBalance, 0, len(clients))
	for _, client := range clients {
		rows = append(rows, ClientBalance{
			ClientId: client.ID,
			Name:     client.Name,
			Balance:  balances[client.ID],
		})
	}
	return rows, nil
}

// ListClients pages clients, optionally filtered by a name/email/phone/gstin
// substring.
func ListClients(ctx context.Context, search string, page int, limit int) ([]Client, int64, error) {
	db := config.GetDB()
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = config.SearchLimit
	}

	query := db.WithContext(ctx).Model(&Client{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ? OR phone LIKE ? OR gstin LIKE ?)", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []Client
	err := query.Preload("Services").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}
