package model

type Profile struct {
	UserID       int64  `json:"user_id"`
	DisplayName  string `json:"display_name"`
	Bio          string `json:"bio"`
	AvatarColor  string `json:"avatar_color"`
	IsPublic     bool   `json:"is_public"`
	ShowStats    bool   `json:"show_stats"`
	CreatedAt    int64  `json:"created_at"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
	MessageCount int64  `json:"message_count"`
}

type ProfileUpdateRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarColor string `json:"avatar_color"`
	IsPublic    bool   `json:"is_public"`
	ShowStats   bool   `json:"show_stats"`
}

const DefaultAvatarColor = "#c7d2fe"
