package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkmark/inkmark/internal/model"
)

func policyDoc() *model.Document {
	return &model.Document{
		ID:                "doc-1",
		UserID:            "owner",
		ShareToken:        "tok-live",
		ShareTokenExpires: 2000,
	}
}

func TestCapabilityValid(t *testing.T) {
	doc := policyDoc()

	require.True(t, capabilityValid(PublicActor("doc-1", "tok-live"), doc, 1000))
	// Expiry boundary is exclusive.
	require.False(t, capabilityValid(PublicActor("doc-1", "tok-live"), doc, 2000))
	require.False(t, capabilityValid(PublicActor("doc-1", "tok-old"), doc, 1000))
	require.False(t, capabilityValid(PublicActor("doc-2", "tok-live"), doc, 1000))
	require.False(t, capabilityValid(UserActor("owner"), doc, 1000))

	doc.ShareToken = ""
	require.False(t, capabilityValid(PublicActor("doc-1", "tok-live"), doc, 1000))
}

func TestCanReadDocument(t *testing.T) {
	doc := policyDoc()

	require.True(t, canReadDocument(UserActor("owner"), doc, false, 1000))
	require.True(t, canReadDocument(UserActor("grantee"), doc, true, 1000))
	require.False(t, canReadDocument(UserActor("stranger"), doc, false, 1000))
	require.True(t, canReadDocument(PublicActor("doc-1", "tok-live"), doc, false, 1000))
	require.False(t, canReadDocument(PublicActor("doc-1", "tok-live"), doc, false, 3000))
}

func TestCanEditSignature(t *testing.T) {
	doc := policyDoc()
	ownerMark := &model.Signature{UserID: "owner", Status: model.SignatureStatusPending}
	granteeMark := &model.Signature{UserID: "grantee", Status: model.SignatureStatusPending}
	publicMark := &model.Signature{Status: model.SignatureStatusPending}

	require.True(t, canEditSignature(UserActor("owner"), doc, granteeMark, 1000))
	require.True(t, canEditSignature(UserActor("grantee"), doc, granteeMark, 1000))
	require.False(t, canEditSignature(UserActor("grantee"), doc, ownerMark, 1000))
	// A registered non-owner never inherits anonymous marks.
	require.False(t, canEditSignature(UserActor("grantee"), doc, publicMark, 1000))

	capability := PublicActor("doc-1", "tok-live")
	require.True(t, canEditSignature(capability, doc, publicMark, 1000))
	require.False(t, canEditSignature(capability, doc, ownerMark, 1000))
	require.False(t, canEditSignature(capability, doc, publicMark, 3000))

	// A signed mark is locked for everyone but the owner.
	signedGranteeMark := &model.Signature{UserID: "grantee", Status: model.SignatureStatusSigned}
	signedPublicMark := &model.Signature{Status: model.SignatureStatusSigned}
	require.True(t, canEditSignature(UserActor("owner"), doc, signedGranteeMark, 1000))
	require.False(t, canEditSignature(UserActor("grantee"), doc, signedGranteeMark, 1000))
	require.False(t, canEditSignature(capability, doc, signedPublicMark, 1000))
}

func TestCanDeleteSignature(t *testing.T) {
	doc := policyDoc()
	capability := PublicActor("doc-1", "tok-live")

	// Unlike edits, removal survives the pending state.
	signedGranteeMark := &model.Signature{UserID: "grantee", Status: model.SignatureStatusSigned}
	signedPublicMark := &model.Signature{Status: model.SignatureStatusSigned}
	require.True(t, canDeleteSignature(UserActor("grantee"), doc, signedGranteeMark, 1000))
	require.True(t, canDeleteSignature(UserActor("owner"), doc, signedGranteeMark, 1000))
	require.True(t, canDeleteSignature(capability, doc, signedPublicMark, 1000))

	require.False(t, canDeleteSignature(UserActor("stranger"), doc, signedGranteeMark, 1000))
	require.False(t, canDeleteSignature(UserActor("grantee"), doc, signedPublicMark, 1000))
	require.False(t, canDeleteSignature(capability, doc, signedGranteeMark, 1000))
	require.False(t, canDeleteSignature(capability, doc, signedPublicMark, 3000))
}

func TestCanSetStatus(t *testing.T) {
	doc := policyDoc()
	require.True(t, canSetStatus(UserActor("owner"), doc))
	require.False(t, canSetStatus(UserActor("grantee"), doc))
	require.False(t, canSetStatus(PublicActor("doc-1", "tok-live"), doc))
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{model.SignatureStatusPending, model.SignatureStatusSigned, true},
		{model.SignatureStatusPending, model.SignatureStatusRejected, true},
		{model.SignatureStatusSigned, model.SignatureStatusPending, true},
		{model.SignatureStatusRejected, model.SignatureStatusPending, true},
		{model.SignatureStatusSigned, model.SignatureStatusRejected, false},
		{model.SignatureStatusRejected, model.SignatureStatusSigned, false},
		{model.SignatureStatusPending, model.SignatureStatusPending, false},
		{model.SignatureStatusPending, "archived", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, transitionAllowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
