// internal/domain/models/credential.go
package models

import "time"

// Credential is the local auth service's login record. A credential may
// exist before (or without) the matching Identity being provisioned.
type Credential struct {
	IdentityID   string    `bson:"_id" json:"identity_id"`
	Email        string    `bson:"email" json:"email"` // lower-cased, unique
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
