// Package domain provides the value types shared by the deal, tax, simulation and goal-seek
// engines and by the collaborators (HTTP, CLI, storage) that feed them.
package domain

import (
	"fmt"
)

// Jurisdiction identifies the UK nation whose transaction tax applies to a purchase.
type Jurisdiction string

const (
	// JurisdictionEngland uses Stamp Duty Land Tax (SDLT)
	JurisdictionEngland Jurisdiction = "england"
	// JurisdictionScotland uses Land and Buildings Transaction Tax (LBTT)
	JurisdictionScotland Jurisdiction = "scotland"
	// JurisdictionWales uses Land Transaction Tax (LTT)
	JurisdictionWales Jurisdiction = "wales"
)

// FinanceType says how the purchase is funded.
type FinanceType string

const (
	FinanceCash     FinanceType = "cash"
	FinanceMortgage FinanceType = "mortgage"
)

// StrategyKind tags the operating strategy variant.
type StrategyKind string

const (
	StrategyBTL      StrategyKind = "btl"
	StrategyStudent  StrategyKind = "student"
	StrategyHMO      StrategyKind = "hmo"
	StrategyShortLet StrategyKind = "short_let"
)

// PropertyInput is descriptive only; none of it feeds the numbers.
type PropertyInput struct {
	Address       string  `json:"address,omitempty"`
	Postcode      string  `json:"postcode,omitempty"`
	PropertyType  string  `json:"property_type,omitempty"`
	Bedrooms      int     `json:"bedrooms,omitempty"`
	Bathrooms     int     `json:"bathrooms,omitempty"`
	FloorAreaSqFt float64 `json:"floor_area_sq_ft,omitempty"`
}

// Refurbishment holds the three refurbishment cost tiers.
type Refurbishment struct {
	Cosmetic    float64 `json:"cosmetic"`
	Structural  float64 `json:"structural"`
	Contingency float64 `json:"contingency"`
}

// Total returns the sum of all tiers.
func (r Refurbishment) Total() float64 {
	return r.Cosmetic + r.Structural + r.Contingency
}

// BuyerStatus carries the flags that select transaction-tax reliefs and surcharges.
type BuyerStatus struct {
	FirstTimeBuyer     bool `json:"first_time_buyer"`
	AdditionalProperty bool `json:"additional_property"`
	Company            bool `json:"company"`
	NonResident        bool `json:"non_resident"`
}

// FinancingInput describes the price and how it is paid for.
type FinancingInput struct {
	AskingPrice    float64       `json:"asking_price"`
	OfferPrice     float64       `json:"offer_price"`
	LTV            float64       `json:"ltv"`
	InterestRate   float64       `json:"interest_rate"`
	TermYears      int           `json:"term_years"`
	InterestOnly   bool          `json:"interest_only"`
	FinanceType    FinanceType   `json:"finance_type"`
	ArrangementFee float64       `json:"arrangement_fee"`
	LegalFees      float64       `json:"legal_fees"`
	SurveyFees     float64       `json:"survey_fees"`
	Refurbishment  Refurbishment `json:"refurbishment"`
	Jurisdiction   Jurisdiction  `json:"jurisdiction"`
	Buyer          BuyerStatus   `json:"buyer"`
}

// PurchasePrice returns the offer price when one has been made, otherwise the asking price.
func (f FinancingInput) PurchasePrice() float64 {
	if f.OfferPrice > 0 {
		return f.OfferPrice
	}
	return f.AskingPrice
}

// IsCash reports whether the purchase carries no mortgage.
func (f FinancingInput) IsCash() bool {
	return f.FinanceType == FinanceCash
}

// LoanAmount returns price × LTV for mortgage purchases and 0 for cash purchases.
func (f FinancingInput) LoanAmount() float64 {
	if f.IsCash() {
		return 0
	}
	return f.PurchasePrice() * f.LTV / 100
}

// Deposit returns the part of the price not covered by the loan.
func (f FinancingInput) Deposit() float64 {
	return f.PurchasePrice() - f.LoanAmount()
}

// TaxJurisdiction defaults an empty jurisdiction to England.
func (f FinancingInput) TaxJurisdiction() Jurisdiction {
	if f.Jurisdiction == "" {
		return JurisdictionEngland
	}
	return f.Jurisdiction
}

// Validate rejects values no calculation can use.
func (f FinancingInput) Validate() error {
	switch {
	case f.AskingPrice < 0 || f.OfferPrice < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case f.PurchasePrice() <= 0:
		return fmt.Errorf("%w: asking or offer price is required", ErrInvalidInput)
	case f.LTV < 0 || f.LTV > 100:
		return fmt.Errorf("%w: ltv %.2f outside [0,100]", ErrInvalidInput, f.LTV)
	case f.InterestRate < 0:
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidInput)
	case f.TermYears < 0:
		return fmt.Errorf("%w: term must not be negative", ErrInvalidInput)
	case f.TermYears == 0 && !f.IsCash() && !f.InterestOnly && f.LTV > 0:
		return fmt.Errorf("%w: a repayment mortgage needs a term", ErrInvalidInput)
	case f.ArrangementFee < 0 || f.LegalFees < 0 || f.SurveyFees < 0:
		return fmt.Errorf("%w: fees must not be negative", ErrInvalidInput)
	case f.Refurbishment.Cosmetic < 0 || f.Refurbishment.Structural < 0 || f.Refurbishment.Contingency < 0:
		return fmt.Errorf("%w: refurbishment costs must not be negative", ErrInvalidInput)
	}

	switch f.FinanceType {
	case "", FinanceCash, FinanceMortgage:
	default:
		return fmt.Errorf("%w: finance type %q", ErrInvalidInput, f.FinanceType)
	}
	return nil
}

// OperatingCosts are the running costs of a let. Percentages apply to effective rental income.
type OperatingCosts struct {
	ManagementPercent   float64 `json:"management_percent"`
	MaintenancePercent  float64 `json:"maintenance_percent"`
	InsuranceAnnual     float64 `json:"insurance_annual"`
	ServiceChargeAnnual float64 `json:"service_charge_annual"`
	GroundRentAnnual    float64 `json:"ground_rent_annual"`
	OtherAnnual         float64 `json:"other_annual"`
}

// Validate rejects negative costs and percentages above 100.
func (c OperatingCosts) Validate() error {
	if c.ManagementPercent < 0 || c.ManagementPercent > 100 ||
		c.MaintenancePercent < 0 || c.MaintenancePercent > 100 {
		return fmt.Errorf("%w: cost percentages must be within [0,100]", ErrInvalidInput)
	}
	if c.InsuranceAnnual < 0 || c.ServiceChargeAnnual < 0 || c.GroundRentAnnual < 0 || c.OtherAnnual < 0 {
		return fmt.Errorf("%w: annual costs must not be negative", ErrInvalidInput)
	}
	return nil
}

// Assumptions are the growth rates the projection applies each year.
type Assumptions struct {
	CapitalGrowthPercent float64 `json:"capital_growth_percent"`
	RentGrowthPercent    float64 `json:"rent_growth_percent"`
}

// DefaultAssumptions is used when a deal carries none.
var DefaultAssumptions = Assumptions{
	CapitalGrowthPercent: 3,
	RentGrowthPercent:    2,
}

// TaxpayerProfile is optional; when present the analysis estimates income tax on the let.
type TaxpayerProfile struct {
	Region      IncomeRegion `json:"region"`
	OtherIncome float64      `json:"other_income"`
}

// DealInput is the complete snapshot a deal analysis runs on.
type DealInput struct {
	Property    PropertyInput    `json:"property"`
	Financing   FinancingInput   `json:"financing"`
	Strategy    StrategyInput    `json:"strategy"`
	Costs       OperatingCosts   `json:"costs"`
	Assumptions *Assumptions     `json:"assumptions,omitempty"`
	Taxpayer    *TaxpayerProfile `json:"taxpayer,omitempty"`
}

// GrowthAssumptions returns the deal's assumptions or the defaults.
func (d DealInput) GrowthAssumptions() Assumptions {
	if d.Assumptions == nil {
		return DefaultAssumptions
	}
	return *d.Assumptions
}

// Validate checks every part of the snapshot.
func (d DealInput) Validate() error {
	if err := d.Financing.Validate(); err != nil {
		return err
	}
	if err := d.Strategy.Validate(); err != nil {
		return err
	}
	if err := d.Costs.Validate(); err != nil {
		return err
	}
	if d.Taxpayer != nil && d.Taxpayer.OtherIncome < 0 {
		return fmt.Errorf("%w: other income must not be negative", ErrInvalidInput)
	}
	return nil
}

// Clone returns a deep copy, so variable setters can modify the copy without touching the original.
func (d DealInput) Clone() DealInput {
	out := d
	out.Strategy = d.Strategy.Clone()
	if d.Assumptions != nil {
		a := *d.Assumptions
		out.Assumptions = &a
	}
	if d.Taxpayer != nil {
		t := *d.Taxpayer
		out.Taxpayer = &t
	}
	return out
}
