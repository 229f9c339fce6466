package service

import (
	"github.com/inkmark/inkmark/internal/model"
)

// capabilityValid reports whether a public actor's capability is usable for
// doc right now: it must target this document, equal the currently stored
// token (minting a new one supersedes the old immediately) and be unexpired.
func capabilityValid(actor Actor, doc *model.Document, now int64) bool {
	share := actor.Share
	if share == nil || doc.ShareToken == "" {
		return false
	}
	return share.DocumentID == doc.ID && share.Token == doc.ShareToken && now < doc.ShareTokenExpires
}

// canReadDocument covers viewing the document, listing its signatures and
// placing a new pending mark.
func canReadDocument(actor Actor, doc *model.Document, hasGrant bool, now int64) bool {
	if actor.UserID != "" {
		return actor.UserID == doc.UserID || hasGrant
	}
	return capabilityValid(actor, doc, now)
}

// canEditSignature covers position/text/font/size/color updates.
// A public actor may never touch a mark that belongs to an identified user,
// and non-owners lose edit access once a mark leaves pending.
func canEditSignature(actor Actor, doc *model.Document, sig *model.Signature, now int64) bool {
	if actor.UserID != "" {
		if actor.UserID == doc.UserID {
			return true
		}
		return sig.UserID != "" && actor.UserID == sig.UserID && sig.Status == model.SignatureStatusPending
	}
	return capabilityValid(actor, doc, now) && sig.UserID == "" && sig.Status == model.SignatureStatusPending
}

// canDeleteSignature: a mark can be removed by the document owner or by
// whoever placed it, in any lifecycle state. Public holders may only remove
// creator-less marks while their capability is valid.
func canDeleteSignature(actor Actor, doc *model.Document, sig *model.Signature, now int64) bool {
	if actor.UserID != "" {
		return actor.UserID == doc.UserID || (sig.UserID != "" && actor.UserID == sig.UserID)
	}
	return capabilityValid(actor, doc, now) && sig.UserID == ""
}

// canSetStatus: accepting or rejecting a mark is the document owner's call
// alone.
func canSetStatus(actor Actor, doc *model.Document) bool {
	return actor.UserID != "" && actor.UserID == doc.UserID
}
