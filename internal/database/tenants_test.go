package database

import (
	"context"
	"testing"
	"time"

	"zapdispatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGetTenant(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	endsAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tenant := &models.Tenant{
		ID:                 "tenant-1",
		Name:               "Acme",
		Role:               models.TenantRoleAdmin,
		Token:              "channel-token",
		MessageTemplate:    "Olá {cliente}",
		BulkSendDelaySec:   5,
		SubscriptionEndsAt: endsAt,
	}
	require.NoError(t, db.SaveTenant(ctx, tenant))

	stored, err := db.GetTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "Acme", stored.Name)
	assert.Equal(t, models.TenantRoleAdmin, stored.Role)
	assert.Equal(t, "channel-token", stored.Token)
	assert.Equal(t, "Olá {cliente}", stored.MessageTemplate)
	assert.Equal(t, 5, stored.BulkSendDelaySec)
	assert.WithinDuration(t, endsAt, stored.SubscriptionEndsAt, time.Second)
}

func TestSaveTenantDefaultsToUserRole(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveTenant(ctx, &models.Tenant{ID: "tenant-1", Name: "Acme"}))

	stored, err := db.GetTenant(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, models.TenantRoleUser, stored.Role)
	assert.True(t, stored.SubscriptionEndsAt.IsZero())
}

func TestSaveTenantReplaces(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveTenant(ctx, &models.Tenant{ID: "tenant-1", Name: "Acme"}))
	require.NoError(t, db.SaveTenant(ctx, &models.Tenant{ID: "tenant-1", Name: "Acme Renamed"}))

	stored, err := db.GetTenant(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", stored.Name)

	tenants, err := db.ListTenants(ctx)
	require.NoError(t, err)
	assert.Len(t, tenants, 1)
}

func TestGetTenantMissing(t *testing.T) {
	db := setupTestDB(t)

	tenant, err := db.GetTenant(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, tenant)
}

func TestListTenants(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveTenant(ctx, &models.Tenant{ID: "b-tenant", Name: "B"}))
	require.NoError(t, db.SaveTenant(ctx, &models.Tenant{ID: "a-tenant", Name: "A"}))

	tenants, err := db.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, "a-tenant", tenants[0].ID)
	assert.Equal(t, "b-tenant", tenants[1].ID)
}
