package model

const (
	SignatureStatusPending  = "pending"
	SignatureStatusSigned   = "signed"
	SignatureStatusRejected = "rejected"
)

// Signature is a positioned text mark on a document page. X and Y are in
// the page's intrinsic coordinate space (points, measured from the top-left
// as delivered by the client); the export step flips Y into PDF space.
type Signature struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	// UserID is empty for marks placed through a public signing link.
	UserID          string  `json:"user_id,omitempty"`
	Page            int     `json:"page"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Text            string  `json:"text"`
	Font            string  `json:"font"`
	FontSize        float64 `json:"font_size"`
	Color           string  `json:"color"`
	Status          string  `json:"status"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	Ctime           int64   `json:"ctime"`
	Mtime           int64   `json:"mtime"`
}
