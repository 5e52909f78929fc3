package services

import (
	"context"
	"encoding/json"
	"errors"

	"credmatrix_backend/internal/email"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/repositories"
	"credmatrix_backend/internal/services/dto"
	"credmatrix_backend/internal/ws"
	"credmatrix_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notice is one notification to store, push and optionally mail.
type Notice struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Data    map[string]any
	Mail    *Mail
}

type Mail struct {
	To       string
	Subject  string
	Template string
	Data     email.TemplateData
}

type NotificationService interface {
	// Notify never fails the caller; every delivery error is logged.
	Notify(ctx context.Context, db *gorm.DB, n Notice)
	List(ctx context.Context, db *gorm.DB, userID string, q *dto.NotificationListQuery) (*dto.ListResponse[models.Notification], error)
	UnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	MarkRead(ctx context.Context, db *gorm.DB, userID, id string) error
	MarkAllRead(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, userID, id string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	pusher           Pusher
	mailer           email.Provider
	dispatch         func(func())
	clock            clock
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	pusher Pusher,
	mailer email.Provider,
) NotificationService {
	if mailer == nil {
		mailer = email.NoopProvider{}
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		pusher:           pusher,
		mailer:           mailer,
		dispatch:         func(f func()) { go f() },
	}
}

func (s *notificationService) Notify(ctx context.Context, db *gorm.DB, n Notice) {
	notification := &models.Notification{
		UserID:  n.UserID,
		Type:    n.Type,
		Title:   n.Title,
		Message: n.Message,
	}
	if len(n.Data) > 0 {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			logger.CtxWithError(ctx, "Failed to encode notification data", err, "type", n.Type)
		} else {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if err := s.notificationRepo.Create(db, notification); err != nil {
		logger.CtxWithError(ctx, "Failed to store notification", err, "user_id", n.UserID, "type", n.Type)
	} else if s.pusher != nil {
		s.pusher.SendToUser(n.UserID, ws.Message{Type: "notification", Data: notification})
	}

	if n.Mail == nil || n.Mail.To == "" {
		return
	}
	mail := *n.Mail
	requestID := logger.GetRequestID(ctx)
	s.dispatch(func() {
		err := s.mailer.SendTemplate([]string{mail.To}, mail.Subject, mail.Template, mail.Data)
		if err != nil {
			logger.WithError(err).Warn("Failed to send notification email",
				"template", mail.Template,
				"request_id", requestID,
			)
		}
	})
}

func (s *notificationService) List(ctx context.Context, db *gorm.DB, userID string, q *dto.NotificationListQuery) (*dto.ListResponse[models.Notification], error) {
	filter := repositories.NotificationFilter{
		UnreadOnly: q.UnreadOnly,
		Type:       q.Type,
		Page:       q.ToPage(),
	}
	items, total, err := s.notificationRepo.ListByUser(db, userID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewListResponse(items, total, filter.Page), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, db *gorm.DB, userID, id string) error {
	return handleNotificationError(s.notificationRepo.MarkRead(db, userID, id, s.clock.now()))
}

func (s *notificationService) MarkAllRead(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(db, userID, s.clock.now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, db *gorm.DB, userID, id string) error {
	return handleNotificationError(s.notificationRepo.Delete(db, userID, id))
}

func handleNotificationError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotificationNotFound
	}
	return apperrors.InternalError(err)
}
