package models

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DB-backed model tests, enabled with INTEGRATION_TESTS=1 against the
// MySQL pointed at by the DB_* env vars.

func setupModelIntegration(t *testing.T) context.Context {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run DB-backed model tests")
	}
	config.ConnectDatabaseWithRetry()
	require.NoError(t, Migrate(config.GetDB()))
	return context.Background()
}

func TestListClientBalances(t *testing.T) {
	ctx := setupModelIntegration(t)

	stamp := time.Now().Format("150405.000000000")
	withOpening, err := CreateClient(ctx, &NewClient{
		Name:           "it-bal-a-" + stamp,
		OpeningBalance: dec("1200"),
	})
	require.NoError(t, err)
	noEntries, err := CreateClient(ctx, &NewClient{
		Name: "it-bal-b-" + stamp,
	})
	require.NoError(t, err)

	rows, err := ListClientBalances(ctx)
	require.NoError(t, err)

	byId := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		byId[row.ClientId] = row.Balance
	}
	require.Contains(t, byId, withOpening.ID)
	require.Contains(t, byId, noEntries.ID)
	assert.True(t, byId[withOpening.ID].Equal(dec("1200.00")), "balance %s", byId[withOpening.ID])
	assert.True(t, byId[noEntries.ID].IsZero())
}

func TestModifyStaffPartialUpdate(t *testing.T) {
	ctx := setupModelIntegration(t)

	staff, err := CreateStaff(ctx, &NewStaff{
		Name:        "it-staff-" + time.Now().Format("150405.000000000"),
		Designation: "Developer",
		SalaryBase:  dec("25000"),
	})
	require.NoError(t, err)

	designation := "Senior Developer"
	salary := dec("32000")
	updated, err := ModifyStaff(ctx, staff.ID, &UpdateStaff{
		Designation: &designation,
		SalaryBase:  &salary,
	})
	require.NoError(t, err)

	assert.Equal(t, designation, updated.Designation)
	assert.True(t, updated.SalaryBase.Equal(dec("32000.00")))
	assert.Equal(t, staff.Name, updated.Name, "untouched fields must survive")
	assert.True(t, updated.IsActive)
}

func TestCredentialLifecycle(t *testing.T) {
	ctx := setupModelIntegration(t)

	client, err := CreateClient(ctx, &NewClient{
		Name: "it-cred-" + time.Now().Format("150405.000000000"),
	})
	require.NoError(t, err)

	cred, err := AddClientCredential(ctx, client.ID, &NewClientCredential{
		PanelName: "Admin Panel",
		Username:  "root",
		Password:  "hunter2",
	})
	require.NoError(t, err)
	require.NotNil(t, cred.LastRotatedAt)

	listed, err := ListClientCredentials(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, MaskedPassword, listed[0].Password)

	password, err := RevealCredentialPassword(ctx, client.ID, cred.ID)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", password)

	rotated := "new-secret"
	_, err = ModifyClientCredential(ctx, client.ID, cred.ID, &UpdateClientCredential{Password: &rotated})
	require.NoError(t, err)
	password, err = RevealCredentialPassword(ctx, client.ID, cred.ID)
	require.NoError(t, err)
	assert.Equal(t, rotated, password)

	require.NoError(t, DeleteClientCredential(ctx, client.ID, cred.ID))
	listed, err = ListClientCredentials(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
