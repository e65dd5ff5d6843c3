package database

import (
	"context"
	"database/sql"
	"fmt"

	"zapdispatch/internal/models"
)

func (d *Database) scanTenant(row rowScanner) (*models.Tenant, error) {
	var (
		tenant             models.Tenant
		encryptedToken     string
		subscriptionEndsAt sql.NullTime
	)

	err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Role,
		&encryptedToken,
		&tenant.MessageTemplate,
		&tenant.BulkSendDelaySec,
		&subscriptionEndsAt,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tenant.Token, err = d.encryptor.DecryptIfEnabled(encryptedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	if subscriptionEndsAt.Valid {
		tenant.SubscriptionEndsAt = subscriptionEndsAt.Time
	}

	return &tenant, nil
}

// SaveTenant inserts or replaces a tenant record.
func (d *Database) SaveTenant(ctx context.Context, tenant *models.Tenant) error {
	encryptedToken, err := d.encryptor.EncryptIfEnabled(tenant.Token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	role := tenant.Role
	if role == "" {
		role = models.TenantRoleUser
	}

	var endsAt interface{}
	if !tenant.SubscriptionEndsAt.IsZero() {
		endsAt = tenant.SubscriptionEndsAt.UTC()
	}

	_, err = d.db.ExecContext(ctx, insertTenantQuery,
		tenant.ID, tenant.Name, role, encryptedToken,
		tenant.MessageTemplate, tenant.BulkSendDelaySec, endsAt)
	if err != nil {
		return fmt.Errorf("failed to save tenant: %w", err)
	}

	return nil
}

// GetTenant retrieves a tenant by id.
func (d *Database) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	tenant, err := d.scanTenant(d.db.QueryRowContext(ctx, selectTenantByIDQuery, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

// ListTenants returns all tenants. The dispatcher iterates this list every
// poll cycle.
func (d *Database) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	rows, err := d.db.QueryContext(ctx, selectTenantsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []models.Tenant
	for rows.Next() {
		tenant, err := d.scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, *tenant)
	}
	return tenants, rows.Err()
}
