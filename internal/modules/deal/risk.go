package deal

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

// Risk rule thresholds.
const (
	highLTV              = 80.0
	elevatedLTV          = 75.0
	lowNetYield          = 4.0
	highVoidWeeks        = 4.0
	lowOccupancy         = 60.0
	structuralShareOfBuy = 0.10
	stressShockForRisk   = 2.0
)

// AssessRisks applies the fixed risk rules to a deal. Only medium and high items affect the
// risk sub-score; low items are informational.
func AssessRisks(in domain.DealInput, m Metrics, stress []domain.StressRow) []domain.RiskItem {
	var risks []domain.RiskItem
	add := func(code string, severity domain.Severity, format string, args ...interface{}) {
		risks = append(risks, domain.RiskItem{Code: code, Severity: severity, Message: fmt.Sprintf(format, args...)})
	}

	fin := in.Financing

	switch {
	case m.MonthlyCashFlow < 0:
		add("negative_cash_flow", domain.SeverityHigh, "Monthly cash flow is negative (£%.2f)", m.MonthlyCashFlow)
	case m.MonthlyCashFlow < WarningCashFlow:
		add("thin_cash_flow", domain.SeverityMedium, "Monthly cash flow of £%.2f leaves little margin", m.MonthlyCashFlow)
	}

	if !fin.IsCash() && m.MonthlyCashFlow >= 0 {
		for _, row := range stress {
			if row.RateIncrease == stressShockForRisk && row.Status == domain.StressNegative {
				add("rate_sensitive", domain.SeverityHigh,
					"Cash flow turns negative if rates rise by %.0f points", stressShockForRisk)
			}
		}
	}

	if !fin.IsCash() {
		switch {
		case fin.LTV > highLTV:
			add("high_leverage", domain.SeverityHigh, "Loan-to-value of %.0f%% is above %.0f%%", fin.LTV, highLTV)
		case fin.LTV > elevatedLTV:
			add("elevated_leverage", domain.SeverityMedium, "Loan-to-value of %.0f%% is above %.0f%%", fin.LTV, elevatedLTV)
		}
		if fin.InterestOnly && m.LoanAmount > 0 {
			add("interest_only", domain.SeverityLow, "Interest-only: £%.0f must be repaid or refinanced at term", m.LoanAmount)
		}
	}

	if m.NetYield < lowNetYield {
		add("low_net_yield", domain.SeverityMedium, "Net yield of %.2f%% is below %.0f%%", m.NetYield, lowNetYield)
	}

	switch in.Strategy.Kind {
	case domain.StrategyBTL:
		if in.Strategy.BTL.VoidWeeks > highVoidWeeks {
			add("long_voids", domain.SeverityMedium, "%.0f void weeks a year assumed", in.Strategy.BTL.VoidWeeks)
		}
	case domain.StrategyHMO:
		add("licensing", domain.SeverityMedium, "HMO licensing and management standards apply")
		if in.Strategy.HMO.VoidWeeks > highVoidWeeks {
			add("long_voids", domain.SeverityMedium, "%.0f void weeks a year assumed", in.Strategy.HMO.VoidWeeks)
		}
	case domain.StrategyStudent:
		add("licensing", domain.SeverityMedium, "Student lets usually need an HMO licence")
		add("seasonal_demand", domain.SeverityLow, "Income depends on the academic-year letting cycle")
	case domain.StrategyShortLet:
		if in.Strategy.ShortLet.OccupancyPercent < lowOccupancy {
			add("low_occupancy", domain.SeverityMedium, "Occupancy of %.0f%% is below %.0f%%",
				in.Strategy.ShortLet.OccupancyPercent, lowOccupancy)
		}
		add("planning_restrictions", domain.SeverityLow, "Short lets may need planning consent or local registration")
	}

	if m.PurchasePrice > 0 && fin.Refurbishment.Structural > m.PurchasePrice*structuralShareOfBuy {
		add("structural_works", domain.SeverityMedium, "Structural works of £%.0f exceed %.0f%% of the price",
			fin.Refurbishment.Structural, structuralShareOfBuy*100)
	}

	return risks
}
