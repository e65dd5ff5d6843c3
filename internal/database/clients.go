package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"zapdispatch/internal/models"
)

func (d *Database) scanClient(row rowScanner) (*models.Client, error) {
	var (
		client         models.Client
		encryptedPhone string
		encryptedEmail string
	)

	err := row.Scan(
		&client.ID,
		&client.OwnerID,
		&client.Name,
		&encryptedPhone,
		&encryptedEmail,
		&client.Subscription,
		&client.Amount,
		&client.DueDate,
		&client.Status,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Phone, err = d.encryptor.DecryptIfEnabled(encryptedPhone)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt phone: %w", err)
	}

	client.Email, err = d.encryptor.DecryptIfEnabled(encryptedEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt email: %w", err)
	}

	return &client, nil
}

// CreateClient stores a new billing record.
func (d *Database) CreateClient(ctx context.Context, client *models.Client) (int64, error) {
	encryptedPhone, err := d.encryptor.EncryptIfEnabled(client.Phone)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt phone: %w", err)
	}

	encryptedEmail, err := d.encryptor.EncryptIfEnabled(client.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt email: %w", err)
	}

	status := client.Status
	if status == "" {
		status = models.ClientStatusActive
	}

	result, err := d.db.ExecContext(ctx, insertClientQuery,
		client.OwnerID, client.Name, encryptedPhone, encryptedEmail,
		client.Subscription, client.Amount, client.DueDate.UTC(), status)
	if err != nil {
		return 0, fmt.Errorf("failed to create client: %w", err)
	}

	return result.LastInsertId()
}

// GetClient retrieves a single client by id.
func (d *Database) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	client, err := d.scanClient(d.db.QueryRowContext(ctx, selectClientByIDQuery, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// ListClients returns all clients owned by a tenant.
func (d *Database) ListClients(ctx context.Context, ownerID string) ([]models.Client, error) {
	rows, err := d.db.QueryContext(ctx, selectClientsByOwnerQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	return d.collectClients(rows)
}

// ListDueClients returns a tenant's active clients whose due date has passed.
// Each is an implicit due-date action; claiming one flips it to overdue.
func (d *Database) ListDueClients(ctx context.Context, ownerID string, now time.Time) ([]models.Client, error) {
	rows, err := d.db.QueryContext(ctx, selectDueClientsQuery, ownerID, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query due clients: %w", err)
	}
	defer rows.Close()

	return d.collectClients(rows)
}

func (d *Database) collectClients(rows *sql.Rows) ([]models.Client, error) {
	var clients []models.Client
	for rows.Next() {
		client, err := d.scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

// ClaimClientDueDate attempts the one-way transition active→overdue that
// marks a due-date action as exclusively owned. The transition is the claim:
// it happens before the notice is sent and is never rolled back, so a billing
// notice can never be delivered twice even if the send later fails.
func (d *Database) ClaimClientDueDate(ctx context.Context, id int64, now time.Time) (*models.Client, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	client, err := d.scanClient(tx.QueryRowContext(ctx, selectClientByIDQuery, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrActionDeleted
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate: %w", err)
	}

	if client.Status != models.ClientStatusActive {
		return nil, models.ErrAlreadyProcessed
	}
	if client.DueDate.After(now.UTC()) {
		return nil, models.ErrNotDueYet
	}

	if _, err := tx.ExecContext(ctx, claimClientDueDateQuery, id); err != nil {
		return nil, fmt.Errorf("failed to write claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	client.Status = models.ClientStatusOverdue
	return client, nil
}

// UpdateClient replaces a client's editable fields.
func (d *Database) UpdateClient(ctx context.Context, client *models.Client) error {
	encryptedPhone, err := d.encryptor.EncryptIfEnabled(client.Phone)
	if err != nil {
		return fmt.Errorf("failed to encrypt phone: %w", err)
	}

	encryptedEmail, err := d.encryptor.EncryptIfEnabled(client.Email)
	if err != nil {
		return fmt.Errorf("failed to encrypt email: %w", err)
	}

	result, err := d.db.ExecContext(ctx, updateClientQuery,
		client.Name, encryptedPhone, encryptedEmail, client.Subscription,
		client.Amount, client.DueDate.UTC(), client.Status,
		client.ID, client.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no client with id %d", client.ID)
	}

	return nil
}

// DeleteClient removes a billing record.
func (d *Database) DeleteClient(ctx context.Context, ownerID string, id int64) error {
	result, err := d.db.ExecContext(ctx, deleteClientQuery, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no client with id %d", id)
	}

	return nil
}
