package probation

import "time"

type Record struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	StartDate       time.Time  `json:"startDate"`
	OriginalEndDate time.Time  `json:"originalEndDate"`
	CurrentEndDate  time.Time  `json:"currentEndDate"`
	PeriodMonths    int        `json:"periodMonths"`
	ExtensionCount  int        `json:"extensionCount"`
	Status          string     `json:"status"`
	AppraisalID     *string    `json:"appraisalId"`
	OutcomeReason   *string    `json:"outcomeReason"`
	ConfirmedAt     *time.Time `json:"confirmedAt"`
	TerminatedAt    *time.Time `json:"terminatedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type Extension struct {
	ID              string    `json:"id"`
	ProbationID     string    `json:"probationId"`
	Ordinal         int       `json:"ordinal"`
	PreviousEndDate time.Time `json:"previousEndDate"`
	NewEndDate      time.Time `json:"newEndDate"`
	Months          int       `json:"months"`
	Reason          string    `json:"reason"`
	ApprovedBy      string    `json:"approvedBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

type KPI struct {
	ID          string   `json:"id"`
	ProbationID string   `json:"probationId"`
	Name        string   `json:"name"`
	Weight      float64  `json:"weight"`
	Target      float64  `json:"target"`
	Actual      *float64 `json:"actual"`
	Notes       string   `json:"notes"`
}
