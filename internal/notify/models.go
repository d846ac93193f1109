package notify

import "time"

// Input is the client-to-server submission payload.
type Input struct {
	SecurityToken string `json:"securityToken"`
	Email         string `json:"email"`
	ProductID     int64  `json:"productId"`
	VariationID   int64  `json:"variationId,omitempty"`
	Attribute     string `json:"attribute,omitempty"`
	Value         string `json:"value,omitempty"`
	Label         string `json:"label,omitempty"`
}

// Status distinguishes a fresh insert from a duplicate internally. The
// external response contract collapses both to success.
type Status string

const (
	StatusAccepted          Status = "accepted"
	StatusAlreadyRegistered Status = "already_registered"
)

// Outcome is the internal result of a submission.
type Outcome struct {
	Status  Status
	Message string
	ID      int64
}

// NotificationRequest is one stored capture row. Never mutated
// automatically; an operator flips Notified or deletes the row.
type NotificationRequest struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	ProductID   int64     `json:"productId"`
	VariationID int64     `json:"variationId,omitempty"`
	Attribute   string    `json:"attribute"`
	Value       string    `json:"value"`
	Label       string    `json:"label,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
	Notified    bool      `json:"notified"`
}

// Counts summarizes the admin list by notified status.
type Counts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Notified int `json:"notified"`
}

// Filter selects admin list rows by notified status.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterPending  Filter = "pending"
	FilterNotified Filter = "notified"
)
