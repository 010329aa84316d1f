package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/student-portal/internal/config"
	"github.com/spec-kit/student-portal/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStudentRegistered, n.handleStudentRegistered)
	n.dispatcher.Subscribe(events.EventStudentAssigned, n.handleAssignmentChanged)
	n.dispatcher.Subscribe(events.EventStudentUnassigned, n.handleAssignmentChanged)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handlePasswordReset)
	n.dispatcher.Subscribe(events.EventTestSubmitted, n.handleTestSubmitted)
}

func (n *NotificationService) handleStudentRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("StudentRegistered", zap.String("student_id", event.StudentID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAssignmentChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AssignmentChanged",
		zap.String("type", string(event.Type)),
		zap.String("student_id", event.StudentID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordResetRequested", zap.String("event_id", event.ID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// Staff follow up on flagged results through the webhook.
func (n *NotificationService) handleTestSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("TestSubmitted", zap.String("student_id", event.StudentID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("student_id", event.StudentID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("student_id", event.StudentID),
		zap.String("event_type", string(event.Type)))
}
