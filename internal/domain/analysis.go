package domain

// Severity grades a risk item. Only medium and high items lower the risk score.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskItem is one flagged concern about a deal.
type RiskItem struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ScoreBreakdown holds the composite 0–100 score and its five 0–10 sub-scores.
type ScoreBreakdown struct {
	Total       int     `json:"total"`
	CashFlow    float64 `json:"cash_flow"`
	ROI         float64 `json:"roi"`
	Risk        float64 `json:"risk"`
	Growth      float64 `json:"growth"`
	ExitOptions float64 `json:"exit_options"`
}

// IncomeBreakdown splits potential income from what is collected after voids or occupancy.
type IncomeBreakdown struct {
	PotentialAnnual float64 `json:"potential_annual"`
	VoidLoss        float64 `json:"void_loss"`
	EffectiveAnnual float64 `json:"effective_annual"`
}

// CostBreakdown lists annual operating costs. Mortgage payments are reported separately.
type CostBreakdown struct {
	Management    float64 `json:"management"`
	Maintenance   float64 `json:"maintenance"`
	Insurance     float64 `json:"insurance"`
	ServiceCharge float64 `json:"service_charge"`
	GroundRent    float64 `json:"ground_rent"`
	Bills         float64 `json:"bills"`
	PlatformFees  float64 `json:"platform_fees"`
	Cleaning      float64 `json:"cleaning"`
	Other         float64 `json:"other"`
	Total         float64 `json:"total"`
}

// CashRequired lists the cash a buyer puts in up front.
type CashRequired struct {
	Deposit        float64 `json:"deposit"`
	StampDuty      float64 `json:"stamp_duty"`
	LegalFees      float64 `json:"legal_fees"`
	SurveyFees     float64 `json:"survey_fees"`
	Refurbishment  float64 `json:"refurbishment"`
	ArrangementFee float64 `json:"arrangement_fee"`
	Total          float64 `json:"total"`
}

// ProjectionYear is one annual step of the five-year projection.
type ProjectionYear struct {
	Year               int     `json:"year"`
	PropertyValue      float64 `json:"property_value"`
	LoanBalance        float64 `json:"loan_balance"`
	Equity             float64 `json:"equity"`
	AnnualCashFlow     float64 `json:"annual_cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	TotalReturn        float64 `json:"total_return"`
}

// StressStatus classifies cash flow under a rate shock.
type StressStatus string

const (
	StressPositive StressStatus = "positive"
	StressWarning  StressStatus = "warning"
	StressNegative StressStatus = "negative"
)

// StressRow is cash flow after adding RateIncrease percentage points to the mortgage rate.
type StressRow struct {
	RateIncrease    float64      `json:"rate_increase"`
	InterestRate    float64      `json:"interest_rate"`
	MonthlyPayment  float64      `json:"monthly_payment"`
	MonthlyCashFlow float64      `json:"monthly_cash_flow"`
	AnnualCashFlow  float64      `json:"annual_cash_flow"`
	Status          StressStatus `json:"status"`
}

// TaxSummary bundles the taxes an analysis computes alongside the deal figures.
type TaxSummary struct {
	StampDuty TransactionTaxResult `json:"stamp_duty"`
	IncomeTax *IncomeTaxResult     `json:"income_tax,omitempty"`
}

// DealAnalysisResult is the full output of a deal analysis. It is built fresh for every call.
type DealAnalysisResult struct {
	Strategy        StrategyKind     `json:"strategy"`
	PurchasePrice   float64          `json:"purchase_price"`
	LoanAmount      float64          `json:"loan_amount"`
	MonthlyMortgage float64          `json:"monthly_mortgage"`
	AnnualMortgage  float64          `json:"annual_mortgage"`
	Income          IncomeBreakdown  `json:"income"`
	Costs           CostBreakdown    `json:"costs"`
	CashRequired    CashRequired     `json:"cash_required"`
	MonthlyCashFlow float64          `json:"monthly_cash_flow"`
	AnnualCashFlow  float64          `json:"annual_cash_flow"`
	GrossYield      float64          `json:"gross_yield"`
	NetYield        float64          `json:"net_yield"`
	ROI             float64          `json:"roi"`
	Score           ScoreBreakdown   `json:"score"`
	Projection      []ProjectionYear `json:"projection"`
	Risks           []RiskItem       `json:"risks"`
	StressTest      []StressRow      `json:"stress_test"`
	Tax             TaxSummary       `json:"tax"`
}
