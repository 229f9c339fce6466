package model

const (
	AuditActionUploaded         = "uploaded"
	AuditActionViewed           = "viewed"
	AuditActionShared           = "shared"
	AuditActionShareRevoked     = "share_revoked"
	AuditActionDownloaded       = "downloaded"
	AuditActionSignatureCreated = "signature_created"
	AuditActionSignatureUpdated = "signature_updated"
	AuditActionSignatureDeleted = "signature_deleted"
	AuditActionStatusSigned     = "status_signed"
	AuditActionStatusRejected   = "status_rejected"
	AuditActionStatusReverted   = "status_reverted"
	AuditActionDocumentDeleted  = "document_deleted"
)

type AuditEvent struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	// UserID is empty when the action was performed through a public
	// signing link.
	UserID string `json:"user_id,omitempty"`
	Action string `json:"action"`
	IP     string `json:"ip,omitempty"`
	Ctime  int64  `json:"ctime"`
}
