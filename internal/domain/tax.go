package domain

import "time"

// IncomeRegion selects the income-tax band table.
type IncomeRegion string

const (
	RegionRestOfUK IncomeRegion = "rest_of_uk"
	RegionScotland IncomeRegion = "scotland"
)

// BandAmount is one row of a banded tax breakdown. To is nil for the open top band, so a
// breakdown always spans [0, ∞) with each band starting where the previous one ends.
type BandAmount struct {
	From     float64  `json:"from"`
	To       *float64 `json:"to"`
	Rate     float64  `json:"rate"`
	BaseRate float64  `json:"base_rate"`
	Taxable  float64  `json:"taxable"`
	Tax      float64  `json:"tax"`
	BaseTax  float64  `json:"base_tax"`
}

// TransactionTaxInput describes a purchase for SDLT, LBTT or LTT.
type TransactionTaxInput struct {
	Price        float64      `json:"price"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
	Buyer        BuyerStatus  `json:"buyer"`
}

// Relief names the band table a transaction-tax result was computed with.
type Relief string

const (
	ReliefNone            Relief = "none"
	ReliefFirstTimeBuyer  Relief = "first_time_buyer"
	ReliefCompanyFlatRate Relief = "company_flat_rate"
)

// TransactionTaxResult is a banded transaction-tax calculation.
type TransactionTaxResult struct {
	TaxYear      string       `json:"tax_year"`
	TaxName      string       `json:"tax_name"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
	Price        float64      `json:"price"`
	Relief       Relief       `json:"relief"`
	Bands        []BandAmount `json:"bands"`
	// StandardTax sums BaseTax across the bands: the tax before any surcharge.
	StandardTax float64 `json:"standard_tax"`
	// BandTax sums Tax across the bands, surcharge included.
	BandTax              float64 `json:"band_tax"`
	AdditionalSurcharge  float64 `json:"additional_surcharge"`
	NonResidentSurcharge float64 `json:"non_resident_surcharge"`
	TotalTax             float64 `json:"total_tax"`
	EffectiveRate        float64 `json:"effective_rate"`
}

// LineItem is a named amount used for expense and income lists.
type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// IncomeTaxInput describes a landlord's rental income for one tax year.
type IncomeTaxInput struct {
	Region            IncomeRegion `json:"region"`
	GrossRent         float64      `json:"gross_rent"`
	AllowableExpenses []LineItem   `json:"allowable_expenses"`
	MortgageInterest  float64      `json:"mortgage_interest"`
	OtherIncome       []LineItem   `json:"other_income"`
}

// IncomeTaxRegime is one full calculation under either the current or pre-reform rules.
type IncomeTaxRegime struct {
	RentalProfit      float64      `json:"rental_profit"`
	TotalIncome       float64      `json:"total_income"`
	PersonalAllowance float64      `json:"personal_allowance"`
	TaxableIncome     float64      `json:"taxable_income"`
	Bands             []BandAmount `json:"bands"`
	TaxBeforeCredit   float64      `json:"tax_before_credit"`
	FinanceCostCredit float64      `json:"finance_cost_credit"`
	TaxAfterCredit    float64      `json:"tax_after_credit"`
	RentalTax         float64      `json:"rental_tax"`
}

// IncomeTaxResult carries the current-regime calculation and the pre-reform comparison.
type IncomeTaxResult struct {
	TaxYear          string          `json:"tax_year"`
	Region           IncomeRegion    `json:"region"`
	GrossRent        float64         `json:"gross_rent"`
	TotalExpenses    float64         `json:"total_expenses"`
	MortgageInterest float64         `json:"mortgage_interest"`
	OtherIncome      float64         `json:"other_income"`
	Current          IncomeTaxRegime `json:"current"`
	PreReform        IncomeTaxRegime `json:"pre_reform"`
	// EffectiveRate is current rental tax as a percentage of rental profit.
	EffectiveRate float64 `json:"effective_rate"`
}

// ResidenceStatus says whether a disposed property was ever the owner's main residence.
type ResidenceStatus string

const (
	ResidenceFull    ResidenceStatus = "full"
	ResidencePartial ResidenceStatus = "partial"
	ResidenceNever   ResidenceStatus = "never"
)

// CGTInput describes a residential property disposal.
type CGTInput struct {
	SalePrice          float64         `json:"sale_price"`
	PurchasePrice      float64         `json:"purchase_price"`
	PurchaseCosts      float64         `json:"purchase_costs"`
	ImprovementCosts   float64         `json:"improvement_costs"`
	SaleCosts          float64         `json:"sale_costs"`
	MainResidence      ResidenceStatus `json:"main_residence"`
	MonthsLivedIn      int             `json:"months_lived_in"`
	OwnershipMonths    int             `json:"ownership_months"`
	OtherTaxableIncome float64         `json:"other_taxable_income"`
	AllowanceUsed      float64         `json:"allowance_used"`
	// OwnershipSharePercent defaults to 100 when zero.
	OwnershipSharePercent float64   `json:"ownership_share_percent,omitempty"`
	DisposalDate          time.Time `json:"disposal_date,omitempty"`
}

// CGTResult is a capital gains calculation for one disposal.
type CGTResult struct {
	TaxYear                string       `json:"tax_year"`
	GrossGain              float64      `json:"gross_gain"`
	ReliefProportion       float64      `json:"relief_proportion"`
	PrivateResidenceRelief float64      `json:"private_residence_relief"`
	ChargeableGain         float64      `json:"chargeable_gain"`
	AnnualExemptAmount     float64      `json:"annual_exempt_amount"`
	AllowanceApplied       float64      `json:"allowance_applied"`
	TaxableGain            float64      `json:"taxable_gain"`
	BasicBandRemaining     float64      `json:"basic_band_remaining"`
	Bands                  []BandAmount `json:"bands"`
	TotalTax               float64      `json:"total_tax"`
	OwnershipSharePercent  float64      `json:"ownership_share_percent"`
	Liability              float64      `json:"liability"`
	ReportingDeadline      *time.Time   `json:"reporting_deadline,omitempty"`
	PaymentDeadline        *time.Time   `json:"payment_deadline,omitempty"`
}

// Section24Result compares the pre-2017 and current treatment of mortgage interest.
type Section24Result struct {
	TaxYear                   string          `json:"tax_year"`
	Current                   IncomeTaxRegime `json:"current"`
	PreReform                 IncomeTaxRegime `json:"pre_reform"`
	AnnualDifference          float64         `json:"annual_difference"`
	TenYearExtra              float64         `json:"ten_year_extra"`
	TwentyFiveYearExtra       float64         `json:"twenty_five_year_extra"`
	CashProfit                float64         `json:"cash_profit"`
	EffectiveRateOnCashProfit float64         `json:"effective_rate_on_cash_profit"`
	LossMaking                bool            `json:"loss_making"`
	Warning                   string          `json:"warning,omitempty"`
}
