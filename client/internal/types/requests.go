package types

// ------------------------------
// Request Types
// ------------------------------

// CreateItemRequest is the payload for POST /items. Multi carries the
// literal string "true"; the endpoint expects a string, not a JSON bool.
type CreateItemRequest struct {
	Type   ItemType `json:"type"`
	Query  string   `json:"query"`
	Multi  string   `json:"multi"`
	Folder string   `json:"folder,omitempty"`
}

// UpdateItemsRequest is the payload for PUT /items. Exactly one of Item or
// Folder is set: Item applies the instruction to a single record, Folder
// applies it across a folder's contents.
type UpdateItemsRequest struct {
	Item   string `json:"item,omitempty"`
	Folder string `json:"folder,omitempty"`
	Query  string `json:"query"`
}

// AssistRequest is the payload for POST /prompt and POST /report: a
// natural-language instruction evaluated against one folder or space.
type AssistRequest struct {
	Folder string `json:"folder"`
	Query  string `json:"query"`
}

// RegisterUserRequest is the payload for POST /register-user.
type RegisterUserRequest struct {
	Email string `json:"email"`
}

// VerifyEmailRequest is the payload for POST /verify-email.
type VerifyEmailRequest struct {
	Code   string `json:"code"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
