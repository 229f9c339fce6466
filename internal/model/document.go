package model

type Document struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Filename string `json:"filename"`
	// StorageKey locates the uploaded PDF in the blob store. It is never
	// exposed to API clients.
	StorageKey string `json:"-"`
	// ShareToken is the single active signing-invitation token. Minting a
	// new one overwrites it, which invalidates the previous token at once.
	ShareToken        string `json:"-"`
	ShareTokenExpires int64  `json:"-"`
	Ctime             int64  `json:"ctime"`
	Mtime             int64  `json:"mtime"`
}

// DocumentGrant gives a registered user signing access to a document.
type DocumentGrant struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id"`
	Ctime      int64  `json:"ctime"`
}
