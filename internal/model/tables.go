package model

import "fmt"

const (
	UsersTable       = "Users"
	ChatsTable       = "Chats"
	InvitationsTable = "Invitations"
	CountersTable    = "Counters"
)

type UserItem struct {
	UserID        int    `dynamodbav:"userId"`
	Email         string `dynamodbav:"email"`
	FirstName     string `dynamodbav:"firstName"`
	LastName      string `dynamodbav:"lastName"`
	PasswordHash  string `dynamodbav:"passwordHash"`
	IsAdmin       bool   `dynamodbav:"isAdmin"`
	IsActivated   bool   `dynamodbav:"isActivated"`
	LoginAttempts int    `dynamodbav:"loginAttempts"`
	CreatedAt     string `dynamodbav:"createdAt"`
}

type ChatItem struct {
	ChatID      int    `dynamodbav:"chatId"`
	Title       string `dynamodbav:"title"`
	Description string `dynamodbav:"description"`
	OwnerID     int    `dynamodbav:"ownerId"`
	CreatedAt   string `dynamodbav:"createdAt"`
	ExpiresAt   string `dynamodbav:"expiresAt,omitempty"`
}

// InvitationItem keys on the chat/user pair, mirroring the composite
// primary key of the invitation table.
type InvitationItem struct {
	PK        string `dynamodbav:"pk"`
	ChatID    int    `dynamodbav:"chatId"`
	UserID    int    `dynamodbav:"userId"`
	InvitedAt string `dynamodbav:"invitedAt"`
}

// CounterItem backs integer id allocation via atomic ADD updates.
type CounterItem struct {
	Name  string `dynamodbav:"name"`
	Value int    `dynamodbav:"value"`
}

func InvitationPK(chatID, userID int) string {
	return fmt.Sprintf("%d#%d", chatID, userID)
}
