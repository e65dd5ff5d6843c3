package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"zapdispatch/internal/models"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (d *Database) scanScheduledMessage(row rowScanner) (*models.ScheduledMessage, error) {
	var (
		msg       models.ScheduledMessage
		encrypted string
		imageURL  sql.NullString
		claimedAt sql.NullTime
	)

	err := row.Scan(
		&msg.ID,
		&msg.OwnerID,
		&msg.Target,
		&encrypted,
		&imageURL,
		&msg.TriggerAt,
		&msg.RepeatDaily,
		&msg.Status,
		&claimedAt,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	msg.Message, err = d.encryptor.DecryptIfEnabled(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt message body: %w", err)
	}

	if imageURL.Valid {
		u := imageURL.String
		msg.ImageURL = &u
	}
	if claimedAt.Valid {
		t := claimedAt.Time
		msg.ClaimedAt = &t
	}

	return &msg, nil
}

// CreateScheduledMessage stores a new pending action created from the dashboard.
func (d *Database) CreateScheduledMessage(ctx context.Context, msg *models.ScheduledMessage) (int64, error) {
	encrypted, err := d.encryptor.EncryptIfEnabled(msg.Message)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt message body: %w", err)
	}

	var imageURL interface{}
	if msg.ImageURL != nil {
		imageURL = *msg.ImageURL
	}

	status := msg.Status
	if status == "" {
		status = models.ActionStatusPending
	}

	result, err := d.db.ExecContext(ctx, insertScheduledMessageQuery,
		msg.OwnerID, msg.Target, encrypted, imageURL,
		msg.TriggerAt.UTC(), msg.RepeatDaily, status)
	if err != nil {
		return 0, fmt.Errorf("failed to create scheduled message: %w", err)
	}

	return result.LastInsertId()
}

// GetScheduledMessage retrieves a single scheduled message by id.
func (d *Database) GetScheduledMessage(ctx context.Context, id int64) (*models.ScheduledMessage, error) {
	msg, err := d.scanScheduledMessage(d.db.QueryRowContext(ctx, selectScheduledMessageByIDQuery, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled message: %w", err)
	}
	return msg, nil
}

// ListScheduledMessages returns all scheduled messages owned by a tenant.
func (d *Database) ListScheduledMessages(ctx context.Context, ownerID string) ([]models.ScheduledMessage, error) {
	rows, err := d.db.QueryContext(ctx, selectScheduledMessagesByOwnerQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled messages: %w", err)
	}
	defer rows.Close()

	return d.collectScheduledMessages(rows)
}

// ListEligibleScheduledMessages returns a tenant's messages that look
// claimable: pending and due, or claimed with a stale claim. The list is a
// candidate set only; eligibility is re-verified inside the claim transaction.
func (d *Database) ListEligibleScheduledMessages(ctx context.Context, ownerID string, now time.Time, staleness time.Duration) ([]models.ScheduledMessage, error) {
	staleBefore := now.Add(-staleness)

	rows, err := d.db.QueryContext(ctx, selectEligibleScheduledMessagesQuery,
		ownerID, now.UTC(), staleBefore.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible scheduled messages: %w", err)
	}
	defer rows.Close()

	return d.collectScheduledMessages(rows)
}

func (d *Database) collectScheduledMessages(rows *sql.Rows) ([]models.ScheduledMessage, error) {
	var msgs []models.ScheduledMessage
	for rows.Next() {
		msg, err := d.scanScheduledMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled message: %w", err)
		}
		msgs = append(msgs, *msg)
	}
	return msgs, rows.Err()
}

// ClaimScheduledMessage attempts to take exclusive ownership of one action.
// It re-reads the row inside an immediate transaction, verifies the candidate
// is still claimable (pending and due, or claimed with a claim older than the
// staleness threshold), and writes status claimed with a fresh claim
// timestamp. The transaction holds the write lock from BEGIN, so no two
// instances can both succeed.
//
// Benign outcomes are reported as models.ErrNotDueYet, ErrAlreadyProcessed,
// ErrAlreadyBeingProcessed, or ErrActionDeleted.
func (d *Database) ClaimScheduledMessage(ctx context.Context, id int64, now time.Time, staleness time.Duration) (*models.ScheduledMessage, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	msg, err := d.scanScheduledMessage(tx.QueryRowContext(ctx, selectScheduledMessageByIDQuery, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrActionDeleted
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate: %w", err)
	}

	now = now.UTC()
	switch msg.Status {
	case models.ActionStatusSent, models.ActionStatusError:
		return nil, models.ErrAlreadyProcessed
	case models.ActionStatusPending:
		if msg.TriggerAt.After(now) {
			return nil, models.ErrNotDueYet
		}
	case models.ActionStatusClaimed:
		if msg.ClaimedAt == nil || now.Sub(*msg.ClaimedAt) <= staleness {
			return nil, models.ErrAlreadyBeingProcessed
		}
	default:
		return nil, models.ErrAlreadyProcessed
	}

	if _, err := tx.ExecContext(ctx, claimScheduledMessageQuery, now, id); err != nil {
		return nil, fmt.Errorf("failed to write claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	msg.Status = models.ActionStatusClaimed
	msg.ClaimedAt = &now
	return msg, nil
}

// MarkScheduledMessageSent resolves a claimed action as delivered.
func (d *Database) MarkScheduledMessageSent(ctx context.Context, id int64) error {
	return d.resolveClaim(ctx, markScheduledMessageSentQuery, id)
}

// MarkScheduledMessageError resolves a claimed action as failed, clearing the claim.
func (d *Database) MarkScheduledMessageError(ctx context.Context, id int64) error {
	return d.resolveClaim(ctx, markScheduledMessageErrorQuery, id)
}

// RescheduleScheduledMessage returns a recurring claimed action to pending
// with its next trigger time and the claim cleared.
func (d *Database) RescheduleScheduledMessage(ctx context.Context, id int64, nextTrigger time.Time) error {
	result, err := d.db.ExecContext(ctx, rescheduleScheduledMessageQuery, nextTrigger.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to reschedule message: %w", err)
	}
	return requireClaimedRow(result, id)
}

func (d *Database) resolveClaim(ctx context.Context, query string, id int64) error {
	result, err := d.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to resolve claim: %w", err)
	}
	return requireClaimedRow(result, id)
}

func requireClaimedRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no claimed message with id %d", id)
	}
	return nil
}

// DeleteScheduledMessage removes an action. User deletion is the only path
// that destroys actions; the dispatcher never deletes.
func (d *Database) DeleteScheduledMessage(ctx context.Context, ownerID string, id int64) error {
	result, err := d.db.ExecContext(ctx, deleteScheduledMessageQuery, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no scheduled message with id %d", id)
	}

	return nil
}
