package model

type Announcement struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedBy *int64 `json:"created_by,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type AnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
