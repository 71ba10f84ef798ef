package service

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
)

const notificationLimit = 50

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	postRepo         repository.PostRepository
	profileRepo      repository.ProfileRepository
	fileService      *FileService
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	fileService *FileService,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		postRepo:         postRepo,
		profileRepo:      profileRepo,
		fileService:      fileService,
	}
}

// Recent returns the latest notifications with sender and post attached.
func (s *NotificationService) Recent(userID string) ([]model.NotificationView, error) {
	notifications, err := s.notificationRepo.Recent(userID, notificationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	senderIDs := lo.Uniq(lo.Map(notifications, func(n *model.Notification, _ int) string { return n.SenderID }))
	postIDs := lo.Uniq(lo.Map(notifications, func(n *model.Notification, _ int) string { return n.PostID }))

	senders, err := s.profileRepo.Authors(senderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load senders: %w", err)
	}

	avatars, err := s.fileService.URLs(model.OwnerTypeUser, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load avatars: %w", err)
	}

	posts, err := s.postRepo.ByIDs(postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	return lo.Map(notifications, func(n *model.Notification, _ int) model.NotificationView {
		sender := senders[n.SenderID]
		sender.ProfileImage = avatars[n.SenderID]

		view := model.NotificationView{
			ID:        n.ID,
			Sender:    sender,
			Type:      n.Type,
			Post:      model.NotificationPost{ID: n.PostID},
			Text:      n.Text,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if p, ok := posts[n.PostID]; ok {
			view.Post.Text = p.Text
		}
		return view
	}), nil
}

func (s *NotificationService) MarkRead(userID, notificationID string) error {
	return s.notificationRepo.MarkRead(userID, notificationID)
}

func (s *NotificationService) MarkAllRead(userID string) error {
	return s.notificationRepo.MarkAllRead(userID)
}

func (s *NotificationService) UnreadCount(userID string) (int, error) {
	return s.notificationRepo.UnreadCount(userID)
}

func (s *NotificationService) Delete(userID, notificationID string) error {
	return s.notificationRepo.Delete(userID, notificationID)
}
