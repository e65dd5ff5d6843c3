package service

import (
	"context"
	stderrors "errors"
	"time"

	"zapdispatch/internal/errors"
	"zapdispatch/internal/metrics"
	"zapdispatch/internal/models"
	"zapdispatch/internal/tracing"
	"zapdispatch/pkg/sendchannel"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Action kinds, used in metrics labels and events.
const (
	KindScheduled = "scheduled"
	KindDueDate   = "duedate"
)

// Store is the subset of the action store the dispatcher needs.
type Store interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)

	ListEligibleScheduledMessages(ctx context.Context, ownerID string, now time.Time, staleness time.Duration) ([]models.ScheduledMessage, error)
	ClaimScheduledMessage(ctx context.Context, id int64, now time.Time, staleness time.Duration) (*models.ScheduledMessage, error)
	MarkScheduledMessageSent(ctx context.Context, id int64) error
	MarkScheduledMessageError(ctx context.Context, id int64) error
	RescheduleScheduledMessage(ctx context.Context, id int64, nextTrigger time.Time) error

	ListDueClients(ctx context.Context, ownerID string, now time.Time) ([]models.Client, error)
	ClaimClientDueDate(ctx context.Context, id int64, now time.Time) (*models.Client, error)
}

// Executor performs the send for a claimed action and resolves its terminal
// state.
type Executor interface {
	DispatchScheduled(ctx context.Context, msg *models.ScheduledMessage, tenant *models.Tenant) error
	DispatchDueDate(ctx context.Context, client *models.Client, tenant *models.Tenant) error
}

// Dispatcher executes sends for claimed actions. It runs only after a
// successful claim; transport failures become terminal error states and a
// user-visible event, never an automatic retry of the same trigger instant.
type Dispatcher struct {
	store   Store
	channel sendchannel.Client
	events  *EventHub
	logger  *logrus.Logger
}

func NewDispatcher(store Store, channel sendchannel.Client, events *EventHub, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		store:   store,
		channel: channel,
		events:  events,
		logger:  logger,
	}
}

// DispatchScheduled sends one claimed scheduled message and writes its
// outcome. On success a daily-recurring message goes back to pending with the
// trigger moved exactly one day forward; a one-shot message becomes sent and
// never changes status again.
func (d *Dispatcher) DispatchScheduled(ctx context.Context, msg *models.ScheduledMessage, tenant *models.Tenant) error {
	ctx, span := tracing.StartSpan(ctx, "dispatch.scheduled",
		attribute.Int64("action.id", msg.ID),
		attribute.String("tenant.id", tenant.ID),
	)
	defer span.End()

	req := sendchannel.SendRequest{
		Message: msg.Message,
		Target:  msg.Target,
		Token:   tenant.Token,
	}
	if msg.ImageURL != nil {
		req.ImageURL = *msg.ImageURL
	}

	start := time.Now()
	sendErr := d.channel.Send(ctx, req)
	metrics.RecordSend(KindScheduled, time.Since(start), sendErr == nil)

	if sendErr != nil {
		tracing.RecordError(ctx, sendErr)
		if err := d.store.MarkScheduledMessageError(ctx, msg.ID); err != nil {
			d.logger.WithError(err).WithField("id", msg.ID).Error("Failed to record error status")
		}
		d.publishFailure(KindScheduled, tenant.ID, msg.Target, msg.Message, sendErr)
		return wrapSendError(sendErr)
	}

	if msg.RepeatDaily {
		next := msg.TriggerAt.Add(24 * time.Hour)
		if err := d.store.RescheduleScheduledMessage(ctx, msg.ID, next); err != nil {
			return errors.NewDatabaseError("reschedule", err)
		}
	} else {
		if err := d.store.MarkScheduledMessageSent(ctx, msg.ID); err != nil {
			return errors.NewDatabaseError("mark sent", err)
		}
	}

	d.events.Publish(Event{
		Type:     EventSent,
		Kind:     KindScheduled,
		TenantID: tenant.ID,
		Target:   msg.Target,
		Message:  msg.Message,
	})

	d.logger.WithFields(logrus.Fields{
		"id":     msg.ID,
		"tenant": tenant.ID,
		"repeat": msg.RepeatDaily,
	}).Info("Scheduled message dispatched")

	return nil
}

// DispatchDueDate sends one billing notice for a client already claimed via
// the active→overdue transition. The overdue status is permanent for this
// mechanism, so a transport failure surfaces to the user but writes nothing
// back: re-sending a billing notice would be worse than losing one.
func (d *Dispatcher) DispatchDueDate(ctx context.Context, client *models.Client, tenant *models.Tenant) error {
	ctx, span := tracing.StartSpan(ctx, "dispatch.duedate",
		attribute.Int64("client.id", client.ID),
		attribute.String("tenant.id", tenant.ID),
	)
	defer span.End()

	notice := RenderDueDateNotice(tenant.MessageTemplate, client)

	start := time.Now()
	sendErr := d.channel.Send(ctx, sendchannel.SendRequest{
		Message: notice,
		Target:  client.Phone,
		Token:   tenant.Token,
	})
	metrics.RecordSend(KindDueDate, time.Since(start), sendErr == nil)

	if sendErr != nil {
		tracing.RecordError(ctx, sendErr)
		d.publishFailure(KindDueDate, tenant.ID, client.Phone, notice, sendErr)
		return wrapSendError(sendErr)
	}

	d.events.Publish(Event{
		Type:     EventSent,
		Kind:     KindDueDate,
		TenantID: tenant.ID,
		Target:   client.Phone,
		Message:  notice,
	})

	d.logger.WithFields(logrus.Fields{
		"client": client.ID,
		"tenant": tenant.ID,
	}).Info("Due-date notice dispatched")

	return nil
}

func (d *Dispatcher) publishFailure(kind, tenantID, target, message string, sendErr error) {
	d.events.Publish(Event{
		Type:     EventError,
		Kind:     kind,
		TenantID: tenantID,
		Target:   target,
		Message:  message,
		Error:    errors.GetUserMessage(wrapSendError(sendErr)),
	})
}

// wrapSendError turns a raw transport error into a structured one whose user
// message carries the channel's failure body verbatim when available.
func wrapSendError(err error) error {
	var statusErr *sendchannel.StatusError
	if stderrors.As(err, &statusErr) {
		return errors.NewSendChannelError(statusErr.StatusCode, statusErr.Body, err)
	}
	return errors.NewSendChannelError(0, "", err)
}
