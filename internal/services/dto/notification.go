package dto

type NotificationListQuery struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type" validate:"max=50"`
	PageQuery
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
