package dto

type ChatResponse struct {
	ChatID      int    `json:"chatId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OwnerID     int    `json:"ownerId"`
	CreatedAt   string `json:"createdAt"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
}

type CreateChatRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	OwnerID     int    `json:"ownerId,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
}

type UpdateChatRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
}

type ListChatsResponse struct {
	Chats []ChatResponse `json:"chats"`
	Total int            `json:"total"`
}

type InvitationResponse struct {
	ChatID    int    `json:"chatId"`
	UserID    int    `json:"userId"`
	InvitedAt string `json:"invitedAt"`
}

type InviteUserRequest struct {
	UserID int `json:"userId"`
}

type ConnectedUsersResponse struct {
	ChatID         int   `json:"chatId"`
	ConnectedUsers []int `json:"connectedUsers"`
}
