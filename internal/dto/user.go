package dto

type UserResponse struct {
	UserID        int    `json:"userId"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	IsAdmin       bool   `json:"isAdmin"`
	IsActivated   bool   `json:"isActivated"`
	LoginAttempts int    `json:"loginAttempts"`
	CreatedAt     string `json:"createdAt"`
}

type UpdateUserRequest struct {
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Password      string `json:"password,omitempty"`
	IsAdmin       bool   `json:"isAdmin"`
	IsActivated   bool   `json:"isActivated"`
	LoginAttempts int    `json:"loginAttempts"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}
