package types

// ------------------------------
// Response Types
// ------------------------------
//
// Every success envelope may carry a "message": free-form commentary from
// the service about what it did. The SDK surfaces it through the client's
// logger rather than dropping it.

// ItemResponse wraps the single-entity endpoint (GET /item) response.
type ItemResponse struct {
	Item    RawItem `json:"item"`
	Message string  `json:"message,omitempty"`
}

// ItemsResponse wraps collection responses (POST/GET/PUT /items).
// Continuation is the server-driven pagination token; empty means the
// result set is complete.
type ItemsResponse struct {
	Items        []RawItem `json:"items"`
	Message      string    `json:"message,omitempty"`
	Continuation string    `json:"continuation,omitempty"`
}

// DeleteResponse acknowledges DELETE /items. Deleted is the number of
// records removed when the server reports one; 0 otherwise.
type DeleteResponse struct {
	Deleted int    `json:"deleted,omitempty"`
	Message string `json:"message,omitempty"`
}

// ReportResponse is the POST /report result: a formatted text document
// (plain text, markdown, or HTML depending on the instruction).
type ReportResponse struct {
	Report  string `json:"report"`
	Message string `json:"message,omitempty"`
}

// RegisterUserResponse is the POST /register-user result. The verification
// code itself travels out-of-band by email.
type RegisterUserResponse struct {
	Success        bool   `json:"success"`
	UserID         string `json:"userId"`
	IsExistingUser bool   `json:"isExistingUser"`
	Message        string `json:"message,omitempty"`
}

// VerifyEmailResponse is the POST /verify-email result. McpToken is the
// long-lived credential issued on successful verification.
type VerifyEmailResponse struct {
	Success     bool   `json:"success"`
	Verified    bool   `json:"verified"`
	McpToken    string `json:"mcpToken"`
	UserCreated bool   `json:"userCreated"`
	Message     string `json:"message,omitempty"`
}
