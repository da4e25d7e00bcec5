// Package deal turns a property, its financing and an operating strategy into cash flow,
// yields, a composite score, a five-year projection, a rate stress test and risk flags.
package deal

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/tax"
	"github.com/damo1005/dealflow-properties-sub003/pkg/formulas"
	"github.com/rs/zerolog"
)

// Metrics are the headline figures of a deal. The simulation and goal-seek engines re-evaluate
// them many times per request, so Evaluate computes nothing else.
type Metrics struct {
	PurchasePrice   float64
	LoanAmount      float64
	MonthlyMortgage float64
	AnnualMortgage  float64
	Income          domain.IncomeBreakdown
	Costs           domain.CostBreakdown
	CashRequired    domain.CashRequired
	StampDuty       *domain.TransactionTaxResult
	AnnualCashFlow  float64
	MonthlyCashFlow float64
	GrossYield      float64
	NetYield        float64
	ROI             float64
}

// NetOperatingIncome is effective income less operating costs, before the mortgage.
func (m Metrics) NetOperatingIncome() float64 {
	return m.Income.EffectiveAnnual - m.Costs.Total
}

// Calculator analyses deals. It holds no per-call state and is safe for concurrent use.
type Calculator struct {
	tax *tax.Calculator
	log zerolog.Logger
}

// NewCalculator creates a deal calculator that prices transaction tax with taxCalc.
func NewCalculator(taxCalc *tax.Calculator, log zerolog.Logger) *Calculator {
	return &Calculator{
		tax: taxCalc,
		log: log.With().Str("component", "deal_calculator").Logger(),
	}
}

// Tax returns the tax calculator the deal figures are priced with.
func (c *Calculator) Tax() *tax.Calculator {
	return c.tax
}

// Evaluate validates in and computes its headline metrics.
func (c *Calculator) Evaluate(in domain.DealInput) (Metrics, error) {
	if err := in.Validate(); err != nil {
		return Metrics{}, err
	}

	fin := in.Financing
	price := fin.PurchasePrice()

	income, variableCosts := strategyIncome(in.Strategy)
	costs := operatingCosts(in.Costs, income.EffectiveAnnual, variableCosts)

	loan := fin.LoanAmount()
	monthlyMortgage := formulas.MonthlyPayment(loan, fin.InterestRate, fin.TermYears, fin.InterestOnly)

	stampDuty, err := c.tax.TransactionTax(domain.TransactionTaxInput{
		Price:        price,
		Jurisdiction: fin.TaxJurisdiction(),
		Buyer:        fin.Buyer,
	})
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to price transaction tax: %w", err)
	}

	cash := domain.CashRequired{
		Deposit:        fin.Deposit(),
		StampDuty:      stampDuty.TotalTax,
		LegalFees:      fin.LegalFees,
		SurveyFees:     fin.SurveyFees,
		Refurbishment:  fin.Refurbishment.Total(),
		ArrangementFee: fin.ArrangementFee,
	}
	cash.Total = cash.Deposit + cash.StampDuty + cash.LegalFees + cash.SurveyFees + cash.Refurbishment + cash.ArrangementFee

	m := Metrics{
		PurchasePrice:   price,
		LoanAmount:      loan,
		MonthlyMortgage: monthlyMortgage,
		AnnualMortgage:  monthlyMortgage * 12,
		Income:          income,
		Costs:           costs,
		CashRequired:    cash,
		StampDuty:       stampDuty,
	}
	m.AnnualCashFlow = income.EffectiveAnnual - costs.Total - m.AnnualMortgage
	m.MonthlyCashFlow = m.AnnualCashFlow / 12
	m.GrossYield = formulas.SafeDiv(income.EffectiveAnnual, price, 0) * 100
	m.NetYield = formulas.SafeDiv(m.NetOperatingIncome(), price, 0) * 100
	m.ROI = formulas.SafeDiv(m.AnnualCashFlow, cash.Total, 0) * 100

	return m, nil
}

// Analyse runs the full deal analysis: metrics, stress test, risk flags, score, projection and
// tax summary. The result is built fresh and shares nothing with in.
func (c *Calculator) Analyse(in domain.DealInput) (*domain.DealAnalysisResult, error) {
	m, err := c.Evaluate(in)
	if err != nil {
		return nil, err
	}

	stress := StressTest(in, m)
	risks := AssessRisks(in, m, stress)
	score := Score(in, m, risks)
	projection := Project(in, m)

	taxSummary := domain.TaxSummary{StampDuty: *m.StampDuty}
	if in.Taxpayer != nil {
		incomeTax, err := c.tax.RentalIncomeTax(rentalIncomeTaxInput(in, m))
		if err != nil {
			return nil, fmt.Errorf("failed to estimate income tax: %w", err)
		}
		taxSummary.IncomeTax = incomeTax
	}

	result := &domain.DealAnalysisResult{
		Strategy:        in.Strategy.Kind,
		PurchasePrice:   m.PurchasePrice,
		LoanAmount:      formulas.Round2(m.LoanAmount),
		MonthlyMortgage: formulas.Round2(m.MonthlyMortgage),
		AnnualMortgage:  formulas.Round2(m.AnnualMortgage),
		Income:          roundIncome(m.Income),
		Costs:           roundCosts(m.Costs),
		CashRequired:    roundCash(m.CashRequired),
		MonthlyCashFlow: formulas.Round2(m.MonthlyCashFlow),
		AnnualCashFlow:  formulas.Round2(m.AnnualCashFlow),
		GrossYield:      formulas.Round2(m.GrossYield),
		NetYield:        formulas.Round2(m.NetYield),
		ROI:             formulas.Round2(m.ROI),
		Score:           score,
		Projection:      projection,
		Risks:           risks,
		StressTest:      stress,
		Tax:             taxSummary,
	}

	c.log.Debug().
		Str("strategy", string(in.Strategy.Kind)).
		Float64("price", m.PurchasePrice).
		Float64("monthly_cash_flow", result.MonthlyCashFlow).
		Int("score", score.Total).
		Msg("Deal analysed")

	return result, nil
}

// rentalIncomeTaxInput treats the first year's interest as loan × rate, which is exact for
// interest-only loans and the opening-year figure for repayment loans.
func rentalIncomeTaxInput(in domain.DealInput, m Metrics) domain.IncomeTaxInput {
	expenses := []domain.LineItem{
		{Name: "management", Amount: m.Costs.Management},
		{Name: "maintenance", Amount: m.Costs.Maintenance},
		{Name: "insurance", Amount: m.Costs.Insurance},
		{Name: "service_charge", Amount: m.Costs.ServiceCharge},
		{Name: "ground_rent", Amount: m.Costs.GroundRent},
		{Name: "bills", Amount: m.Costs.Bills},
		{Name: "platform_fees", Amount: m.Costs.PlatformFees},
		{Name: "cleaning", Amount: m.Costs.Cleaning},
		{Name: "other", Amount: m.Costs.Other},
	}

	allowable := expenses[:0]
	for _, e := range expenses {
		if e.Amount > 0 {
			e.Amount = formulas.Round2(e.Amount)
			allowable = append(allowable, e)
		}
	}

	var other []domain.LineItem
	if in.Taxpayer.OtherIncome > 0 {
		other = append(other, domain.LineItem{Name: "other_income", Amount: in.Taxpayer.OtherIncome})
	}

	return domain.IncomeTaxInput{
		Region:            in.Taxpayer.Region,
		GrossRent:         formulas.Round2(m.Income.EffectiveAnnual),
		AllowableExpenses: allowable,
		MortgageInterest:  formulas.Round2(m.LoanAmount * in.Financing.InterestRate / 100),
		OtherIncome:       other,
	}
}

func roundIncome(i domain.IncomeBreakdown) domain.IncomeBreakdown {
	return domain.IncomeBreakdown{
		PotentialAnnual: formulas.Round2(i.PotentialAnnual),
		VoidLoss:        formulas.Round2(i.VoidLoss),
		EffectiveAnnual: formulas.Round2(i.EffectiveAnnual),
	}
}

func roundCosts(c domain.CostBreakdown) domain.CostBreakdown {
	return domain.CostBreakdown{
		Management:    formulas.Round2(c.Management),
		Maintenance:   formulas.Round2(c.Maintenance),
		Insurance:     formulas.Round2(c.Insurance),
		ServiceCharge: formulas.Round2(c.ServiceCharge),
		GroundRent:    formulas.Round2(c.GroundRent),
		Bills:         formulas.Round2(c.Bills),
		PlatformFees:  formulas.Round2(c.PlatformFees),
		Cleaning:      formulas.Round2(c.Cleaning),
		Other:         formulas.Round2(c.Other),
		Total:         formulas.Round2(c.Total),
	}
}

func roundCash(c domain.CashRequired) domain.CashRequired {
	return domain.CashRequired{
		Deposit:        formulas.Round2(c.Deposit),
		StampDuty:      c.StampDuty,
		LegalFees:      formulas.Round2(c.LegalFees),
		SurveyFees:     formulas.Round2(c.SurveyFees),
		Refurbishment:  formulas.Round2(c.Refurbishment),
		ArrangementFee: formulas.Round2(c.ArrangementFee),
		Total:          formulas.Round2(c.Total),
	}
}
