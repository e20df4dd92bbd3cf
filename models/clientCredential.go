package models

import (
	"context"
	"errors"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/utils"
	"gorm.io/gorm"
)

// MaskedPassword is what listings show in place of a stored secret.
const MaskedPassword = "••••••••"

// ClientCredential is one panel/project login kept for a client. The
// password is excluded from JSON everywhere; reads go through
// RevealCredentialPassword so handing out a secret is always an explicit
// call, never a side effect of listing.
type ClientCredential struct {
	ID            int                   `gorm:"primaryKey" json:"id"`
	ClientId      int                   `gorm:"not null;index:idx_credential_client,priority:1" json:"client_id"`
	PanelName     string                `gorm:"size:100;not null;index:idx_credential_client,priority:2" json:"panel_name" binding:"required"`
	ProjectName   string                `gorm:"size:100" json:"project_name"`
	Environment   CredentialEnvironment `gorm:"size:10;not null;default:PROD" json:"environment"`
	Url           string                `gorm:"size:255" json:"url"`
	Username      string                `gorm:"size:100;not null" json:"username" binding:"required"`
	Password      string                `gorm:"size:255;not null" json:"-"`
	Tags          []string              `gorm:"serializer:json" json:"tags"`
	Notes         string                `gorm:"size:500" json:"notes"`
	LastRotatedAt *time.Time            `json:"last_rotated_at"`
	CreatedAt     time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClientCredential struct {
	PanelName   string                `json:"panel_name" binding:"required"`
	ProjectName string                `json:"project_name"`
	Environment CredentialEnvironment `json:"environment"`
	Url         string                `json:"url"`
	Username    string                `json:"username" binding:"required"`
	Password    string                `json:"password" binding:"required"`
	Tags        []string              `json:"tags"`
	Notes       string                `json:"notes"`
}

// UpdateClientCredential carries a partial update; nil fields are left
// untouched.
type UpdateClientCredential struct {
	PanelName   *string                `json:"panel_name"`
	ProjectName *string                `json:"project_name"`
	Environment *CredentialEnvironment `json:"environment"`
	Url         *string                `json:"url"`
	Username    *string                `json:"username"`
	Password    *string                `json:"password"`
	Tags        *[]string              `json:"tags"`
	Notes       *string                `json:"notes"`
}

// Apply folds the patch into the credential. A password change stamps
// LastRotatedAt so rotation age is tracked without a separate call.
func (input *UpdateClientCredential) Apply(cred *ClientCredential, now time.Time) {
	if input.PanelName != nil {
		cred.PanelName = *input.PanelName
	}
	if input.ProjectName != nil {
		cred.ProjectName = *input.ProjectName
	}
	if input.Environment != nil {
		cred.Environment = *input.Environment
	}
	if input.Url != nil {
		cred.Url = *input.Url
	}
	if input.Username != nil {
		cred.Username = *input.Username
	}
	if input.Password != nil {
		cred.Password = *input.Password
		cred.LastRotatedAt = &now
	}
	if input.Tags != nil {
		cred.Tags = *input.Tags
	}
	if input.Notes != nil {
		cred.Notes = *input.Notes
	}
}

// Masked returns a copy safe to hand to any caller: the stored password is
// replaced by the mask, never the real value.
func (cred ClientCredential) Masked() ClientCredential {
	cred.Password = MaskedPassword
	return cred
}

func AddClientCredential(ctx context.Context, clientId int, input *NewClientCredential) (*ClientCredential, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if _, err := GetClient(ctx, clientId); err != nil {
		return nil, err
	}
	environment := input.Environment
	if environment == "" {
		environment = CredentialEnvironmentProd
	}
	now := time.Now()
	cred := ClientCredential{
		ClientId:      clientId,
		PanelName:     input.PanelName,
		ProjectName:   input.ProjectName,
		Environment:   environment,
		Url:           input.Url,
		Username:      input.Username,
		Password:      input.Password,
		Tags:          input.Tags,
		Notes:         input.Notes,
		LastRotatedAt: &now,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

// ListClientCredentials returns a client's credentials with passwords
// masked.
func ListClientCredentials(ctx context.Context, clientId int) ([]ClientCredential, error) {
	if _, err := GetClient(ctx, clientId); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var rows []ClientCredential
	err := db.WithContext(ctx).
		Where("client_id = ?", clientId).
		Order("panel_name ASC, environment ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i] = rows[i].Masked()
	}
	return rows, nil
}

// RevealCredentialPassword returns one credential's stored password.
func RevealCredentialPassword(ctx context.Context, clientId int, credentialId int) (string, error) {
	cred, err := getClientCredential(ctx, clientId, credentialId)
	if err != nil {
		return "", err
	}
	return cred.Password, nil
}

func ModifyClientCredential(ctx context.Context, clientId int, credentialId int, input *UpdateClientCredential) (*ClientCredential, error) {
	cred, err := getClientCredential(ctx, clientId, credentialId)
	if err != nil {
		return nil, err
	}
	input.Apply(cred, time.Now())
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(cred).Error; err != nil {
		return nil, err
	}
	masked := cred.Masked()
	return &masked, nil
}

func DeleteClientCredential(ctx context.Context, clientId int, credentialId int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).
		Where("client_id = ?", clientId).
		Delete(&ClientCredential{}, credentialId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFoundError(utils.CodeCredentialNotFound, "credential not found")
	}
	return nil
}

func getClientCredential(ctx context.Context, clientId int, credentialId int) (*ClientCredential, error) {
	db := config.GetDB()
	var cred ClientCredential
	err := db.WithContext(ctx).
		Where("client_id = ?", clientId).
		First(&cred, credentialId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeCredentialNotFound, "credential not found")
		}
		return nil, err
	}
	return &cred, nil
}
