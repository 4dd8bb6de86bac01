package models

import "time"

// Project groups tasks. OwnerID is nil only for the seeded sample project.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     *int64    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OwnedBy reports whether userID owns p.
func (p *Project) OwnedBy(userID int64) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}
