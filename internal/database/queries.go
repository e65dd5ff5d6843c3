package database

// Scheduled message queries
const (
	insertScheduledMessageQuery = `
		INSERT INTO scheduled_messages (
			owner_id, target, message, image_url, trigger_at, repeat_daily, status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectScheduledMessageColumns = `
		SELECT id, owner_id, target, message, image_url, trigger_at,
		       repeat_daily, status, claimed_at, created_at, updated_at
		FROM scheduled_messages
	`

	selectScheduledMessageByIDQuery = selectScheduledMessageColumns + `
		WHERE id = ?
	`

	selectScheduledMessagesByOwnerQuery = selectScheduledMessageColumns + `
		WHERE owner_id = ?
		ORDER BY trigger_at ASC
	`

	selectEligibleScheduledMessagesQuery = selectScheduledMessageColumns + `
		WHERE owner_id = ?
		  AND ((status = 'pending' AND trigger_at <= ?)
		    OR (status = 'claimed' AND claimed_at IS NOT NULL AND claimed_at <= ?))
		ORDER BY trigger_at ASC
	`

	claimScheduledMessageQuery = `
		UPDATE scheduled_messages
		SET status = 'claimed', claimed_at = ?
		WHERE id = ?
	`

	markScheduledMessageSentQuery = `
		UPDATE scheduled_messages
		SET status = 'sent', claimed_at = NULL
		WHERE id = ? AND status = 'claimed'
	`

	markScheduledMessageErrorQuery = `
		UPDATE scheduled_messages
		SET status = 'error', claimed_at = NULL
		WHERE id = ? AND status = 'claimed'
	`

	rescheduleScheduledMessageQuery = `
		UPDATE scheduled_messages
		SET status = 'pending', trigger_at = ?, claimed_at = NULL
		WHERE id = ? AND status = 'claimed'
	`

	deleteScheduledMessageQuery = `
		DELETE FROM scheduled_messages
		WHERE id = ? AND owner_id = ?
	`
)

// Client queries
const (
	insertClientQuery = `
		INSERT INTO clients (
			owner_id, name, phone, email, subscription, amount, due_date, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectClientColumns = `
		SELECT id, owner_id, name, phone, email, subscription, amount,
		       due_date, status, created_at, updated_at
		FROM clients
	`

	selectClientByIDQuery = selectClientColumns + `
		WHERE id = ?
	`

	selectClientsByOwnerQuery = selectClientColumns + `
		WHERE owner_id = ?
		ORDER BY due_date ASC
	`

	selectDueClientsQuery = selectClientColumns + `
		WHERE owner_id = ? AND status = 'active' AND due_date <= ?
		ORDER BY due_date ASC
	`

	claimClientDueDateQuery = `
		UPDATE clients
		SET status = 'overdue'
		WHERE id = ? AND status = 'active'
	`

	updateClientQuery = `
		UPDATE clients
		SET name = ?, phone = ?, email = ?, subscription = ?, amount = ?,
		    due_date = ?, status = ?
		WHERE id = ? AND owner_id = ?
	`

	deleteClientQuery = `
		DELETE FROM clients
		WHERE id = ? AND owner_id = ?
	`
)

// Tenant queries
const (
	insertTenantQuery = `
		INSERT OR REPLACE INTO tenants (
			id, name, role, token, message_template, bulk_send_delay_sec, subscription_ends_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	selectTenantColumns = `
		SELECT id, name, role, token, message_template, bulk_send_delay_sec,
		       subscription_ends_at, created_at, updated_at
		FROM tenants
	`

	selectTenantByIDQuery = selectTenantColumns + `
		WHERE id = ?
	`

	selectTenantsQuery = selectTenantColumns + `
		ORDER BY id ASC
	`
)
