package model

type Checklist struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedBy   *int64          `json:"created_by,omitempty"`
	Items       []ChecklistItem `json:"items"`
}

type ChecklistItem struct {
	ID          int64  `json:"id"`
	ChecklistID int64  `json:"checklist_id"`
	Text        string `json:"text"`
	Checked     bool   `json:"checked"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

type ChecklistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ChecklistItemRequest struct {
	Text     string `json:"text"`
	ParentID *int64 `json:"parent_id"`
}
