package deal

import (
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

const weeksPerYear = 52.0

// strategyCosts are the costs that depend on the strategy rather than on OperatingCosts.
type strategyCosts struct {
	bills        float64
	platformFees float64
	cleaning     float64
}

// strategyIncome derives annual income for the strategy variant. Validation has already
// guaranteed the variant matching Kind is present.
func strategyIncome(s domain.StrategyInput) (domain.IncomeBreakdown, strategyCosts) {
	var income domain.IncomeBreakdown
	var costs strategyCosts

	switch s.Kind {
	case domain.StrategyBTL:
		income.PotentialAnnual = s.BTL.MonthlyRent * 12
		income.EffectiveAnnual = income.PotentialAnnual * (1 - s.BTL.VoidWeeks/weeksPerYear)

	case domain.StrategyStudent:
		st := s.Student
		weekly := float64(st.Rooms) * st.RoomRentWeekly
		income.PotentialAnnual = weekly * weeksPerYear
		income.EffectiveAnnual = weekly * st.Weeks()
		costs.bills = st.BillsMonthly * 12

	case domain.StrategyHMO:
		h := s.HMO
		income.PotentialAnnual = float64(h.Rooms) * h.RoomRentMonthly * 12
		income.EffectiveAnnual = income.PotentialAnnual * (1 - h.VoidWeeks/weeksPerYear)
		costs.bills = h.BillsMonthly * 12

	case domain.StrategyShortLet:
		sl := s.ShortLet
		nights := 365 * sl.OccupancyPercent / 100
		income.PotentialAnnual = 365 * sl.NightlyRate
		income.EffectiveAnnual = nights * sl.NightlyRate
		costs.platformFees = income.EffectiveAnnual * sl.PlatformFeePercent / 100
		costs.cleaning = nights / sl.StayNights() * sl.CleaningCostPerStay
	}

	income.VoidLoss = income.PotentialAnnual - income.EffectiveAnnual
	return income, costs
}

// operatingCosts applies the percentage costs to effective income and adds the fixed ones.
func operatingCosts(c domain.OperatingCosts, effectiveIncome float64, sc strategyCosts) domain.CostBreakdown {
	out := domain.CostBreakdown{
		Management:    effectiveIncome * c.ManagementPercent / 100,
		Maintenance:   effectiveIncome * c.MaintenancePercent / 100,
		Insurance:     c.InsuranceAnnual,
		ServiceCharge: c.ServiceChargeAnnual,
		GroundRent:    c.GroundRentAnnual,
		Bills:         sc.bills,
		PlatformFees:  sc.platformFees,
		Cleaning:      sc.cleaning,
		Other:         c.OtherAnnual,
	}
	out.Total = out.Management + out.Maintenance + out.Insurance + out.ServiceCharge +
		out.GroundRent + out.Bills + out.PlatformFees + out.Cleaning + out.Other
	return out
}
