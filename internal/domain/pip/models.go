package pip

import "time"

type Plan struct {
	ID            string     `json:"id"`
	Reference     string     `json:"reference"`
	EmployeeID    string     `json:"employeeId"`
	ManagerID     string     `json:"managerId"`
	Reason        string     `json:"reason"`
	StartDate     time.Time  `json:"startDate"`
	TargetEndDate time.Time  `json:"targetEndDate"`
	DurationWeeks int        `json:"durationWeeks"`
	Status        string     `json:"status"`
	Outcome       *string    `json:"outcome"`
	ActivatedAt   *time.Time `json:"activatedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type Goal struct {
	ID          string     `json:"id"`
	PlanID      string     `json:"planId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Status      string     `json:"status"`
}

// CheckIn rows are append-only; CheckInNumber orders them because the
// store guarantees no insertion order.
type CheckIn struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"planId"`
	CheckInNumber int       `json:"checkInNumber"`
	Date          time.Time `json:"date"`
	Rating        int       `json:"rating"`
	Notes         string    `json:"notes"`
	ActionItems   string    `json:"actionItems"`
	CreatedAt     time.Time `json:"createdAt"`
}
