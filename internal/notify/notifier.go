// Package notify turns domain events from the API into user notifications.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tazhibayda/devconnector/internal/metrics"
	"github.com/tazhibayda/devconnector/internal/queue"
	"go.uber.org/zap"
)

const welcomeSubject = "Welcome to DevConnector"

// badPayload marks an event that can never be processed, however often it is redelivered.
type badPayload struct{ err error }

func (b badPayload) Error() string {
	if b.err != nil {
		return "bad payload: " + b.err.Error()
	}
	return "bad payload: missing fields"
}

func (b badPayload) Unwrap() error { return b.err }

type Notifier struct {
	Mail Sender
	Log  *zap.Logger
}

func New(mail Sender, l *zap.Logger) *Notifier {
	if l == nil {
		l = zap.NewNop()
	}
	return &Notifier{Mail: mail, Log: l}
}

// Handle processes one delivery. Undecodable or unknown events are logged and
// dropped; only a failed send is returned so the broker redelivers it.
func (n *Notifier) Handle(ctx context.Context, d queue.Delivery) error {
	l := n.Log.With(
		zap.String("key", d.Key),
		zap.String("message_id", d.MessageID),
		zap.String("request_id", d.RequestID),
	)

	var err error
	switch d.Key {
	case queue.KeyUserRegistered:
		err = n.userRegistered(ctx, l, d.Body)
	case queue.KeyProfileSaved:
		err = n.profileSaved(l, d.Body)
	default:
		l.Warn("unknown event dropped")
		metrics.EventsConsumed.WithLabelValues(d.Key, "dropped").Inc()
		return nil
	}

	var bad badPayload
	switch {
	case err == nil:
		metrics.EventsConsumed.WithLabelValues(d.Key, "ok").Inc()
		return nil
	case errors.As(err, &bad):
		l.Error("malformed event dropped", zap.Error(err))
		metrics.EventsConsumed.WithLabelValues(d.Key, "dropped").Inc()
		return nil
	default:
		l.Error("event handling failed", zap.Error(err))
		metrics.EventsConsumed.WithLabelValues(d.Key, "retry").Inc()
		return err
	}
}

func (n *Notifier) userRegistered(ctx context.Context, l *zap.Logger, body []byte) error {
	var ev queue.UserRegistered
	if err := json.Unmarshal(body, &ev); err != nil || ev.Email == "" {
		return badPayload{err: err}
	}
	text := fmt.Sprintf("Hi %s,\n\nyour DevConnector account is ready. Create your developer profile to get started.\n", ev.Name)
	if err := n.Mail.Send(ctx, ev.Email, welcomeSubject, text); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}
	l.Info("welcome mail sent", zap.String("user_id", ev.UserID))
	return nil
}

func (n *Notifier) profileSaved(l *zap.Logger, body []byte) error {
	var ev queue.ProfileSaved
	if err := json.Unmarshal(body, &ev); err != nil || ev.UserID == "" {
		return badPayload{err: err}
	}
	l.Info("profile saved", zap.String("user_id", ev.UserID), zap.Bool("created", ev.Created))
	return nil
}
