package service

// Actor identifies who is performing an operation. Exactly one identity
// variant is set: a registered user id, or the share-capability claims a
// public signer presented. Never both.
type Actor struct {
	UserID string
	Share  *ShareCapability
	// IP is carried along for audit records only; it plays no part in
	// authorization.
	IP string
}

// ShareCapability is the claim set of a public signing link after the JWT
// layer verified it. It still has to match the document's currently stored
// token to be usable.
type ShareCapability struct {
	DocumentID string
	Token      string
}

func UserActor(userID string) Actor {
	return Actor{UserID: userID}
}

func PublicActor(documentID, token string) Actor {
	return Actor{Share: &ShareCapability{DocumentID: documentID, Token: token}}
}

func (a Actor) IsPublic() bool {
	return a.UserID == ""
}
