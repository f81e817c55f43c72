// internal/domain/models/site.go
package models

// Site is a workplace tag members can be filtered by.
type Site struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}
