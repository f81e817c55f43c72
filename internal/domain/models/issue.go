// internal/domain/models/issue.go
package models

import "time"

// Issue categories offered on the report form.
var IssueCategories = []string{
	"Workplace safety",
	"Pay and conditions",
	"Bullying or harassment",
	"Rostering",
	"Other",
}

// IssueReport is a member-submitted workplace issue. Reports are never
// edited after creation.
type IssueReport struct {
	ID          string    `bson:"_id" json:"id"` // uuid
	ReporterID  string    `bson:"reporter_id" json:"reporter_id"`
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description" json:"description"`
	Urgent      bool      `bson:"urgent" json:"urgent"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// IssueImage links an uploaded image to an issue report.
type IssueImage struct {
	ID        string    `bson:"_id" json:"id"`
	IssueID   string    `bson:"issue_id" json:"issue_id"`
	ImageURL  string    `bson:"image_url" json:"image_url"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsIssueCategory reports whether c is one of IssueCategories.
func IsIssueCategory(c string) bool {
	for _, k := range IssueCategories {
		if k == c {
			return true
		}
	}
	return false
}
