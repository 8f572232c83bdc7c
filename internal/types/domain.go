package types

import "time"

// LeadStatus tracks where a lead sits in the sales funnel.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusProposal  LeadStatus = "proposal"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// IsActive reports whether the lead is still in play (neither won nor lost).
func (s LeadStatus) IsActive() bool {
	return s != LeadStatusWon && s != LeadStatusLost
}

// TaskPriority is the urgency bucket assigned to an internal task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskStatusDone marks a completed task. Task status is otherwise free-form
// (e.g. "pending", "in_progress").
const TaskStatusDone = "done"

// Lead is a prospective customer of the drone-service business. Farm
// attributes are optional; the sales team fills them in as they qualify
// the contact.
type Lead struct {
	ID             string     `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Company        string     `json:"company" db:"company"`
	Email          string     `json:"email" db:"email"`
	Phone          string     `json:"phone" db:"phone"`
	Status         LeadStatus `json:"status" db:"status"`
	PotentialValue string     `json:"potential_value" db:"potential_value"`
	Source         string     `json:"source" db:"source"`
	Notes          string     `json:"notes,omitempty" db:"notes"`
	FarmHectares   string     `json:"farm_hectares,omitempty" db:"farm_hectares"`
	CropType       string     `json:"crop_type,omitempty" db:"crop_type"`
	City           string     `json:"city,omitempty" db:"city"`
	LocationNote   string     `json:"location_note,omitempty" db:"location_note"`
	LastContactAt  *time.Time `json:"last_contact_at,omitempty" db:"last_contact_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Appointment is a scheduled field service (spraying, mapping, monitoring)
// for a client. Status is free-form by contract: the original system used
// values such as "scheduled", "confirmed", "pending" and "done".
type Appointment struct {
	ID          string `json:"id" db:"id"`
	ClientName  string `json:"client_name" db:"client_name"`
	ServiceType string `json:"service_type" db:"service_type"`
	Date        string `json:"date" db:"date"`
	Time        string `json:"time" db:"time"`
	Status      string `json:"status" db:"status"`
	Notes       string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Task is an internal to-do item for the operations team.
type Task struct {
	ID          string       `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Status      string       `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	DueDate     string       `json:"due_date" db:"due_date"`
	Assignee    string       `json:"assignee" db:"assignee"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
