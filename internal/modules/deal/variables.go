package deal

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

// Variables lists every variable Get and Set understand.
var Variables = []domain.Variable{
	domain.VarPurchasePrice,
	domain.VarMonthlyRent,
	domain.VarDepositPercent,
	domain.VarMortgageRate,
	domain.VarVoidWeeks,
	domain.VarManagementPercent,
	domain.VarMaintenancePercent,
	domain.VarOccupancyPercent,
	domain.VarNightlyRate,
	domain.VarRoomRent,
}

func notApplicable(v domain.Variable, in domain.DealInput) error {
	if in.Financing.IsCash() && (v == domain.VarDepositPercent || v == domain.VarMortgageRate) {
		return fmt.Errorf("%w: %s does not apply to a cash purchase", domain.ErrInvalidInput, v)
	}
	return fmt.Errorf("%w: %s does not apply to a %s strategy", domain.ErrInvalidInput, v, in.Strategy.Kind)
}

// Get reads variable v from a deal.
//
// monthlyRent is the whole property's monthly rent: the BTL rent, rooms × room rent for an
// HMO, and rooms × weekly room rent × 52/12 for a student let. roomRent is the per-room rent
// in the strategy's own period (monthly for HMO, weekly for student).
func Get(in domain.DealInput, v domain.Variable) (float64, error) {
	s := in.Strategy
	switch v {
	case domain.VarPurchasePrice:
		return in.Financing.PurchasePrice(), nil

	case domain.VarMonthlyRent:
		switch {
		case s.Kind == domain.StrategyBTL && s.BTL != nil:
			return s.BTL.MonthlyRent, nil
		case s.Kind == domain.StrategyHMO && s.HMO != nil:
			return float64(s.HMO.Rooms) * s.HMO.RoomRentMonthly, nil
		case s.Kind == domain.StrategyStudent && s.Student != nil:
			return float64(s.Student.Rooms) * s.Student.RoomRentWeekly * weeksPerYear / 12, nil
		}

	case domain.VarDepositPercent:
		if !in.Financing.IsCash() {
			return 100 - in.Financing.LTV, nil
		}

	case domain.VarMortgageRate:
		if !in.Financing.IsCash() {
			return in.Financing.InterestRate, nil
		}

	case domain.VarVoidWeeks:
		switch {
		case s.Kind == domain.StrategyBTL && s.BTL != nil:
			return s.BTL.VoidWeeks, nil
		case s.Kind == domain.StrategyHMO && s.HMO != nil:
			return s.HMO.VoidWeeks, nil
		}

	case domain.VarManagementPercent:
		return in.Costs.ManagementPercent, nil

	case domain.VarMaintenancePercent:
		return in.Costs.MaintenancePercent, nil

	case domain.VarOccupancyPercent:
		if s.Kind == domain.StrategyShortLet && s.ShortLet != nil {
			return s.ShortLet.OccupancyPercent, nil
		}

	case domain.VarNightlyRate:
		if s.Kind == domain.StrategyShortLet && s.ShortLet != nil {
			return s.ShortLet.NightlyRate, nil
		}

	case domain.VarRoomRent:
		switch {
		case s.Kind == domain.StrategyHMO && s.HMO != nil:
			return s.HMO.RoomRentMonthly, nil
		case s.Kind == domain.StrategyStudent && s.Student != nil:
			return s.Student.RoomRentWeekly, nil
		}

	default:
		return 0, fmt.Errorf("%w: unknown variable %q", domain.ErrInvalidInput, v)
	}

	return 0, notApplicable(v, in)
}

// Set returns a copy of in with variable v set to value. in itself is never modified.
func Set(in domain.DealInput, v domain.Variable, value float64) (domain.DealInput, error) {
	if _, err := Get(in, v); err != nil {
		return domain.DealInput{}, err
	}

	out := in.Clone()
	s := out.Strategy

	switch v {
	case domain.VarPurchasePrice:
		if out.Financing.OfferPrice > 0 {
			out.Financing.OfferPrice = value
		} else {
			out.Financing.AskingPrice = value
		}

	case domain.VarMonthlyRent:
		switch s.Kind {
		case domain.StrategyBTL:
			s.BTL.MonthlyRent = value
		case domain.StrategyHMO:
			if s.HMO.Rooms == 0 {
				return domain.DealInput{}, fmt.Errorf("%w: hmo has no rooms to spread rent over", domain.ErrInvalidInput)
			}
			s.HMO.RoomRentMonthly = value / float64(s.HMO.Rooms)
		case domain.StrategyStudent:
			if s.Student.Rooms == 0 {
				return domain.DealInput{}, fmt.Errorf("%w: student let has no rooms to spread rent over", domain.ErrInvalidInput)
			}
			s.Student.RoomRentWeekly = value * 12 / weeksPerYear / float64(s.Student.Rooms)
		}

	case domain.VarDepositPercent:
		out.Financing.LTV = 100 - value

	case domain.VarMortgageRate:
		out.Financing.InterestRate = value

	case domain.VarVoidWeeks:
		if s.Kind == domain.StrategyBTL {
			s.BTL.VoidWeeks = value
		} else {
			s.HMO.VoidWeeks = value
		}

	case domain.VarManagementPercent:
		out.Costs.ManagementPercent = value

	case domain.VarMaintenancePercent:
		out.Costs.MaintenancePercent = value

	case domain.VarOccupancyPercent:
		s.ShortLet.OccupancyPercent = value

	case domain.VarNightlyRate:
		s.ShortLet.NightlyRate = value

	case domain.VarRoomRent:
		if s.Kind == domain.StrategyHMO {
			s.HMO.RoomRentMonthly = value
		} else {
			s.Student.RoomRentWeekly = value
		}
	}

	return out, nil
}
