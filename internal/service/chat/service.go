package chat

import (
	"chat-admin-backend/internal/database"
	"chat-admin-backend/internal/model"
	"chat-admin-backend/internal/service/user"
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"
)

// UserDirectory is the slice of the user store the chat service needs
// to validate invitations and resolve participants.
type UserDirectory interface {
	GetUser(ctx context.Context, userID int) (model.UserItem, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
	now   func() time.Time
}

func New(db *database.Database, users UserDirectory) *Service {
	return &Service{
		repo:  NewDynamoRepository(db),
		users: users,
		now:   time.Now,
	}
}

func NewWithRepository(repo Repository, users UserDirectory, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:  repo,
		users: users,
		now:   now,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (model.ChatItem, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return model.ChatItem{}, newError(ErrorCodeValidation, "missing chat title", nil)
	}

	if _, err := s.users.GetUser(ctx, params.OwnerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return model.ChatItem{}, newError(ErrorCodeNotFound, "no user with this id", err)
		}
		return model.ChatItem{}, newError(ErrorCodeInternal, "failed to fetch owner", err)
	}

	expiresAt := strings.TrimSpace(params.ExpiresAt)
	if expiresAt != "" {
		if _, err := time.Parse(time.RFC3339, expiresAt); err != nil {
			return model.ChatItem{}, newError(ErrorCodeValidation, "invalid expiration date", err)
		}
	}

	chatID, err := s.repo.NextChatID(ctx)
	if err != nil {
		return model.ChatItem{}, newError(ErrorCodeInternal, "failed to allocate chat id", err)
	}

	chat := model.ChatItem{
		ChatID:      chatID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		OwnerID:     params.OwnerID,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
		ExpiresAt:   expiresAt,
	}

	if err := s.repo.CreateChat(ctx, chat); err != nil {
		return model.ChatItem{}, newError(ErrorCodeInternal, "failed to save chat", err)
	}

	return chat, nil
}

func (s *Service) Get(ctx context.Context, chatID int) (model.ChatItem, error) {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.ChatItem{}, newError(ErrorCodeNotFound, "no chat with this id", err)
		}
		return model.ChatItem{}, newError(ErrorCodeInternal, "failed to fetch chat", err)
	}
	return chat, nil
}

func (s *Service) Update(ctx context.Context, chatID int, params UpdateParams) (model.ChatItem, error) {
	chat, err := s.Get(ctx, chatID)
	if err != nil {
		return model.ChatItem{}, err
	}

	if title := strings.TrimSpace(params.Title); title != "" {
		chat.Title = title
	}
	if description := strings.TrimSpace(params.Description); description != "" {
		chat.Description = description
	}
	if expiresAt := strings.TrimSpace(params.ExpiresAt); expiresAt != "" {
		if _, err := time.Parse(time.RFC3339, expiresAt); err != nil {
			return model.ChatItem{}, newError(ErrorCodeValidation, "invalid expiration date", err)
		}
		chat.ExpiresAt = expiresAt
	}

	if err := s.repo.SaveChat(ctx, chat); err != nil {
		return model.ChatItem{}, newError(ErrorCodeInternal, "failed to save chat", err)
	}

	return chat, nil
}

// Delete removes the chat together with its invitations.
func (s *Service) Delete(ctx context.Context, chatID int) error {
	if _, err := s.Get(ctx, chatID); err != nil {
		return err
	}

	if err := s.repo.DeleteInvitationsForChat(ctx, chatID); err != nil {
		return newError(ErrorCodeInternal, "failed to delete chat invitations", err)
	}
	if err := s.repo.DeleteChat(ctx, chatID); err != nil {
		return newError(ErrorCodeInternal, "failed to delete chat", err)
	}

	return nil
}

// List pages through every chat, expired ones included, for the admin
// surface. Offset and size are clamped rather than rejected.
func (s *Service) List(ctx context.Context, offset, size int) (Page, error) {
	chats, err := s.repo.ListChats(ctx)
	if err != nil {
		return Page{}, newError(ErrorCodeInternal, "failed to list chats", err)
	}

	sort.Slice(chats, func(i, j int) bool { return chats[i].ChatID < chats[j].ChatID })

	total := len(chats)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	if size <= 0 {
		size = total - offset
	}
	end := offset + size
	if end > total {
		end = total
	}

	return Page{
		Chats: chats[offset:end],
		Total: total,
	}, nil
}

// ListForUser returns the chats the user owns or was invited to,
// leaving out the ones that have expired.
func (s *Service) ListForUser(ctx context.Context, userID int) ([]model.ChatItem, error) {
	owned, err := s.repo.ListChatsByOwner(ctx, userID)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to list owned chats", err)
	}

	invitations, err := s.repo.ListInvitationsByUser(ctx, userID)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to list invitations", err)
	}

	seen := make(map[int]struct{}, len(owned))
	chats := make([]model.ChatItem, 0, len(owned)+len(invitations))
	now := s.now()

	for _, chat := range owned {
		if isExpired(chat, now) {
			continue
		}
		seen[chat.ChatID] = struct{}{}
		chats = append(chats, chat)
	}

	for _, invitation := range invitations {
		if _, ok := seen[invitation.ChatID]; ok {
			continue
		}
		chat, err := s.repo.GetChat(ctx, invitation.ChatID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Printf("Invitation %s points at a missing chat", invitation.PK)
				continue
			}
			return nil, newError(ErrorCodeInternal, "failed to fetch invited chat", err)
		}
		if isExpired(chat, now) {
			continue
		}
		seen[chat.ChatID] = struct{}{}
		chats = append(chats, chat)
	}

	sort.Slice(chats, func(i, j int) bool { return chats[i].ChatID < chats[j].ChatID })
	return chats, nil
}

func (s *Service) Invite(ctx context.Context, chatID, userID int) (model.InvitationItem, error) {
	chat, err := s.Get(ctx, chatID)
	if err != nil {
		return model.InvitationItem{}, err
	}
	if chat.OwnerID == userID {
		return model.InvitationItem{}, newError(ErrorCodeConflict, "owner is already a participant", nil)
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return model.InvitationItem{}, newError(ErrorCodeNotFound, "no user with this id", err)
		}
		return model.InvitationItem{}, newError(ErrorCodeInternal, "failed to fetch user", err)
	}

	if _, err := s.repo.GetInvitation(ctx, chatID, userID); err == nil {
		return model.InvitationItem{}, newError(ErrorCodeConflict, "user is already invited", nil)
	} else if !errors.Is(err, ErrNotFound) {
		return model.InvitationItem{}, newError(ErrorCodeInternal, "failed to check invitation", err)
	}

	invitation := model.InvitationItem{
		PK:        model.InvitationPK(chatID, userID),
		ChatID:    chatID,
		UserID:    userID,
		InvitedAt: s.now().UTC().Format(time.RFC3339),
	}

	if err := s.repo.CreateInvitation(ctx, invitation); err != nil {
		return model.InvitationItem{}, newError(ErrorCodeInternal, "failed to save invitation", err)
	}

	return invitation, nil
}

func (s *Service) Revoke(ctx context.Context, chatID, userID int) error {
	if _, err := s.repo.GetInvitation(ctx, chatID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return newError(ErrorCodeNotFound, "no invitation for this user", err)
		}
		return newError(ErrorCodeInternal, "failed to check invitation", err)
	}

	if err := s.repo.DeleteInvitation(ctx, chatID, userID); err != nil {
		return newError(ErrorCodeInternal, "failed to delete invitation", err)
	}

	return nil
}

// Participants resolves the owner plus every invited user. Guests whose
// accounts were deleted since the invitation are skipped.
func (s *Service) Participants(ctx context.Context, chatID int) ([]model.UserItem, error) {
	chat, err := s.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	invitations, err := s.repo.ListInvitationsByChat(ctx, chatID)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to list invitations", err)
	}

	participants := make([]model.UserItem, 0, len(invitations)+1)

	owner, err := s.users.GetUser(ctx, chat.OwnerID)
	if err == nil {
		participants = append(participants, owner)
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, newError(ErrorCodeInternal, "failed to fetch owner", err)
	}

	for _, invitation := range invitations {
		guest, err := s.users.GetUser(ctx, invitation.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				log.Printf("Invitation %s points at a missing user", invitation.PK)
				continue
			}
			return nil, newError(ErrorCodeInternal, "failed to fetch guest", err)
		}
		participants = append(participants, guest)
	}

	sort.Slice(participants, func(i, j int) bool {
		return participants[i].UserID < participants[j].UserID
	})
	return participants, nil
}

func isExpired(chat model.ChatItem, now time.Time) bool {
	if chat.ExpiresAt == "" {
		return false
	}
	expiresAt, err := time.Parse(time.RFC3339, chat.ExpiresAt)
	if err != nil {
		return false
	}
	return expiresAt.Before(now)
}
