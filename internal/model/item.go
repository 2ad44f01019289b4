package model

import "time"

// Item is one physical object placed into storage, tracked by its QR number.
type Item struct {
	Seq           int64      `db:"seq" json:"-"`
	ID            string     `db:"id" json:"id"`
	QRNumber      string     `db:"qr_number" json:"qr_number"`
	ItemName      string     `db:"item_name" json:"item_name"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Phone         string     `db:"phone" json:"phone"`
	Email         string     `db:"email" json:"email,omitempty"`
	DepositDate   string     `db:"deposit_date" json:"deposit_date"`
	PickupDate    string     `db:"pickup_date" json:"pickup_date,omitempty"`
	DepositAmount float64    `db:"deposit_amount" json:"deposit_amount"`
	PickupAmount  float64    `db:"pickup_amount" json:"pickup_amount"`
	Category      Category   `db:"category" json:"category"`
	Status        Status     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	CreatedBy     string     `db:"created_by" json:"created_by"`
	ArchivedAt    *time.Time `db:"archived_at" json:"archived_at,omitempty"`
}

// CustomerName returns "First Last".
func (i Item) CustomerName() string {
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// Status is the lifecycle state of an item.
type Status string

// Item statuses. An item only ever moves from active to archived.
const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// ParseStatus converts a raw value into a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusArchived:
		return Status(s), true
	default:
		return "", false
	}
}

// Label returns the display name of the status.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "На хранении"
	case StatusArchived:
		return "Выдан"
	default:
		return string(s)
	}
}

// Category is the storage department an item belongs to.
type Category string

// Categories.
const (
	CategoryDocuments Category = "documents"
	CategoryPhotos    Category = "photos"
	CategoryOther     Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryDocuments, CategoryPhotos, CategoryOther}

// ParseCategory converts a raw value into a Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryDocuments, CategoryPhotos, CategoryOther:
		return Category(s), true
	default:
		return "", false
	}
}

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryDocuments:
		return "Документы"
	case CategoryPhotos:
		return "Фото/Карты"
	case CategoryOther:
		return "Другое"
	default:
		return string(c)
	}
}

// Department returns the storage department caption, empty for
// categories without a dedicated department.
func (c Category) Department() string {
	switch c {
	case CategoryDocuments:
		return "Отдел 1"
	case CategoryPhotos:
		return "Отдел 2"
	case CategoryOther:
		return ""
	default:
		return ""
	}
}

// FilterItems returns the items matching pred, preserving order.
// The source slice is never modified.
func FilterItems(items []Item, pred func(Item) bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// InCategory is a FilterItems predicate.
func InCategory(c Category) func(Item) bool {
	return func(it Item) bool { return it.Category == c }
}

// WithStatus is a FilterItems predicate.
func WithStatus(s Status) func(Item) bool {
	return func(it Item) bool { return it.Status == s }
}

// Counts holds per-category totals of a set of items.
type Counts struct {
	Total     int `json:"total"`
	Documents int `json:"documents"`
	Photos    int `json:"photos"`
	Other     int `json:"other"`
}

// Of returns the count for a single category.
func (c Counts) Of(cat Category) int {
	switch cat {
	case CategoryDocuments:
		return c.Documents
	case CategoryPhotos:
		return c.Photos
	case CategoryOther:
		return c.Other
	default:
		return 0
	}
}

// Tally counts items per category.
func Tally(items []Item) Counts {
	var c Counts
	for _, it := range items {
		switch it.Category {
		case CategoryDocuments:
			c.Documents++
		case CategoryPhotos:
			c.Photos++
		case CategoryOther:
			c.Other++
		}
		c.Total++
	}
	return c
}
