package domain

// Goal is the output metric a goal seek drives towards a target.
type Goal string

const (
	GoalCashFlow        Goal = "cashFlow"
	GoalROI             Goal = "roi"
	GoalNetYield        Goal = "netYield"
	GoalMaxCashRequired Goal = "maxCashRequired"
)

// GoalSeekResult answers "what value of Variable makes Goal reach Target".
// Value is nil when no candidate could be evaluated at all.
type GoalSeekResult struct {
	Goal             Goal             `json:"goal"`
	Variable         Variable         `json:"variable"`
	Target           float64          `json:"target"`
	CurrentValue     float64          `json:"current_value"`
	CurrentMetric    float64          `json:"current_metric"`
	Value            *float64         `json:"value"`
	AchievedMetric   *float64         `json:"achieved_metric"`
	Achieved         bool             `json:"achieved"`
	ChangePercent    float64          `json:"change_percent"`
	Feasibility      int              `json:"feasibility"`
	FeasibilityLabel string           `json:"feasibility_label"`
	Iterations       int              `json:"iterations"`
	Message          string           `json:"message,omitempty"`
	Alternatives     []GoalSeekResult `json:"alternatives,omitempty"`
}
