package appraisal

import "time"

type Cycle struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	FiscalYear         int       `json:"fiscalYear"`
	CycleType          string    `json:"cycleType"`
	SelfAssessmentDue  time.Time `json:"selfAssessmentDue"`
	ManagerReviewDue   time.Time `json:"managerReviewDue"`
	CommitteeReviewDue time.Time `json:"committeeReviewDue"`
	FinalApprovalDue   time.Time `json:"finalApprovalDue"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Sections  []Section `json:"sections,omitempty"`
}

type Section struct {
	ID          string      `json:"id"`
	TemplateID  string      `json:"templateId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Weight      float64     `json:"weight"`
	Position    int         `json:"position"`
	Criteria    []Criterion `json:"criteria,omitempty"`
}

// Criterion ratings use a fixed 0-5 scale.
type Criterion struct {
	ID          string `json:"id"`
	SectionID   string `json:"sectionId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
	Position    int    `json:"position"`
}

type Appraisal struct {
	ID         string `json:"id"`
	Reference  string `json:"reference"`
	EmployeeID string `json:"employeeId"`
	CycleID    string `json:"cycleId"`
	TemplateID string `json:"templateId"`
	Type       string `json:"type"`
	Status     string `json:"status"`

	SelfAssessmentScore *float64 `json:"selfAssessmentScore"`
	ManagerScore        *float64 `json:"managerScore"`
	CommitteeScore      *float64 `json:"committeeScore"`
	FinalScore          *float64 `json:"finalScore"`
	PercentageScore     *int     `json:"percentageScore"`
	PerformanceLevel    *string  `json:"performanceLevel"`
	Recommendation      *string  `json:"recommendation"`

	Achievements            *string `json:"achievements"`
	Challenges              *string `json:"challenges"`
	EmployeeComments        *string `json:"employeeComments"`
	Strengths               *string `json:"strengths"`
	Improvements            *string `json:"improvements"`
	TrainingRecommendations *string `json:"trainingRecommendations"`
	CommitteeComments       *string `json:"committeeComments"`
	CommitteeRecommendation *string `json:"committeeRecommendation"`
	ApprovedBy              *string `json:"approvedBy"`
	ApprovalDecision        *string `json:"approvalDecision"`
	ApprovalComments        *string `json:"approvalComments"`
	EmployeeFeedback        *string `json:"employeeFeedback"`
	RejectedBy              *string `json:"rejectedBy"`
	RejectionReason         *string `json:"rejectionReason"`

	SelfAssessmentStartedAt *time.Time `json:"selfAssessmentStartedAt"`
	SelfAssessmentDate      *time.Time `json:"selfAssessmentDate"`
	ManagerReviewDate       *time.Time `json:"managerReviewDate"`
	CommitteeReviewedAt     *time.Time `json:"committeeReviewedAt"`
	ApprovedAt              *time.Time `json:"approvedAt"`
	CommunicatedAt          *time.Time `json:"communicatedAt"`
	EmployeeAcknowledgedAt  *time.Time `json:"employeeAcknowledgedAt"`
	RejectedAt              *time.Time `json:"rejectedAt"`
	CreatedAt               time.Time  `json:"createdAt"`
}

type Rating struct {
	ID               string    `json:"id"`
	AppraisalID      string    `json:"appraisalId"`
	CriterionID      string    `json:"criterionId"`
	SelfScore        *int      `json:"selfScore"`
	ManagerScore     *int      `json:"managerScore"`
	CommitteeScore   *int      `json:"committeeScore"`
	SelfComment      string    `json:"selfComment"`
	ManagerComment   string    `json:"managerComment"`
	CommitteeComment string    `json:"committeeComment"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Goal struct {
	ID          string     `json:"id"`
	AppraisalID string     `json:"appraisalId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Status      string     `json:"status"`
}

type TrainingNeed struct {
	ID          string `json:"id"`
	AppraisalID string `json:"appraisalId"`
	Title       string `json:"title"`
	Priority    string `json:"priority"`
	Notes       string `json:"notes"`
}
