package appraisal

const (
	CycleStatusDraft     = "draft"
	CycleStatusActive    = "active"
	CycleStatusInReview  = "in_review"
	CycleStatusCompleted = "completed"
	CycleStatusArchived  = "archived"

	CycleTypeAnnual    = "annual"
	CycleTypeMidYear   = "mid_year"
	CycleTypeQuarterly = "quarterly"

	TemplateTypeAnnual          = "annual"
	TemplateTypeProbation       = "probation"
	TemplateTypeContractRenewal = "contract_renewal"
	TemplateTypePIPReview       = "pip_review"

	StatusDraft           = "draft"
	StatusSelfAssessment  = "self_assessment"
	StatusManagerReview   = "manager_review"
	StatusCommitteeReview = "committee_review"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusCommunicated    = "communicated"
	StatusCompleted       = "completed"
	StatusRejected        = "rejected"

	GoalStatusPending    = "pending"
	GoalStatusInProgress = "in_progress"
	GoalStatusCompleted  = "completed"

	RatingScaleMax = 5
)
