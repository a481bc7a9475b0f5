package models

import "time"

// AccountIndexEntry is the flat reverse-lookup document keyed by identity
// account id. It points back at the primary student record so account-id
// lookups never need to scan the hierarchy.
type AccountIndexEntry struct {
	AccountID      string    `json:"accountId" firestore:"authUid"`
	AccountEmail   string    `json:"accountEmail,omitempty" firestore:"authEmail,omitempty"`
	Department     string    `json:"department,omitempty" firestore:"department,omitempty"`
	Year           string    `json:"year,omitempty" firestore:"year,omitempty"`
	Section        string    `json:"section,omitempty" firestore:"section,omitempty"`
	RollNumber     string    `json:"rollNumber,omitempty" firestore:"rollNo,omitempty"`
	PrimaryDocPath string    `json:"primaryDocPath" firestore:"primaryDocPath"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}
