package domain

import "fmt"

// BTLStrategy is a single let on one tenancy.
type BTLStrategy struct {
	MonthlyRent float64 `json:"monthly_rent"`
	VoidWeeks   float64 `json:"void_weeks"`
}

// StudentStrategy lets rooms on academic-year contracts with bills included.
type StudentStrategy struct {
	Rooms          int     `json:"rooms"`
	RoomRentWeekly float64 `json:"room_rent_weekly"`
	ContractWeeks  float64 `json:"contract_weeks"`
	BillsMonthly   float64 `json:"bills_monthly"`
}

// DefaultContractWeeks is the length of a typical academic-year tenancy.
const DefaultContractWeeks = 44.0

// Weeks returns the contract length, defaulted when zero.
func (s StudentStrategy) Weeks() float64 {
	if s.ContractWeeks <= 0 {
		return DefaultContractWeeks
	}
	return s.ContractWeeks
}

// HMOStrategy lets rooms individually on monthly contracts with bills included.
type HMOStrategy struct {
	Rooms           int     `json:"rooms"`
	RoomRentMonthly float64 `json:"room_rent_monthly"`
	VoidWeeks       float64 `json:"void_weeks"`
	BillsMonthly    float64 `json:"bills_monthly"`
}

// ShortLetStrategy is serviced accommodation booked by the night.
type ShortLetStrategy struct {
	NightlyRate         float64 `json:"nightly_rate"`
	OccupancyPercent    float64 `json:"occupancy_percent"`
	PlatformFeePercent  float64 `json:"platform_fee_percent"`
	CleaningCostPerStay float64 `json:"cleaning_cost_per_stay"`
	// AverageStayNights defaults to DefaultAverageStayNights when zero.
	AverageStayNights float64 `json:"average_stay_nights,omitempty"`
}

// DefaultAverageStayNights is the assumed booking length for cleaning costs.
const DefaultAverageStayNights = 3.0

// StayNights returns the average stay, defaulted.
func (s ShortLetStrategy) StayNights() float64 {
	if s.AverageStayNights <= 0 {
		return DefaultAverageStayNights
	}
	return s.AverageStayNights
}

// StrategyInput is a tagged variant: Kind selects which one of the pointers must be set.
type StrategyInput struct {
	Kind     StrategyKind      `json:"kind"`
	BTL      *BTLStrategy      `json:"btl,omitempty"`
	Student  *StudentStrategy  `json:"student,omitempty"`
	HMO      *HMOStrategy      `json:"hmo,omitempty"`
	ShortLet *ShortLetStrategy `json:"short_let,omitempty"`
}

// NewBTL builds a buy-to-let strategy.
func NewBTL(monthlyRent, voidWeeks float64) StrategyInput {
	return StrategyInput{Kind: StrategyBTL, BTL: &BTLStrategy{MonthlyRent: monthlyRent, VoidWeeks: voidWeeks}}
}

// Validate checks that exactly the variant named by Kind is present and sane.
func (s StrategyInput) Validate() error {
	set := 0
	for _, present := range []bool{s.BTL != nil, s.Student != nil, s.HMO != nil, s.ShortLet != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: strategy must carry exactly one variant, got %d", ErrInvalidInput, set)
	}

	switch s.Kind {
	case StrategyBTL:
		if s.BTL == nil {
			return fmt.Errorf("%w: btl strategy details missing", ErrInvalidInput)
		}
		if s.BTL.MonthlyRent < 0 {
			return fmt.Errorf("%w: monthly rent must not be negative", ErrInvalidInput)
		}
		return validateVoidWeeks(s.BTL.VoidWeeks)

	case StrategyStudent:
		st := s.Student
		if st == nil {
			return fmt.Errorf("%w: student strategy details missing", ErrInvalidInput)
		}
		if st.Rooms < 0 || st.RoomRentWeekly < 0 || st.BillsMonthly < 0 {
			return fmt.Errorf("%w: student rooms, rent and bills must not be negative", ErrInvalidInput)
		}
		if st.ContractWeeks < 0 || st.ContractWeeks > 52 {
			return fmt.Errorf("%w: contract weeks %.1f outside [0,52]", ErrInvalidInput, st.ContractWeeks)
		}
		return nil

	case StrategyHMO:
		h := s.HMO
		if h == nil {
			return fmt.Errorf("%w: hmo strategy details missing", ErrInvalidInput)
		}
		if h.Rooms < 0 || h.RoomRentMonthly < 0 || h.BillsMonthly < 0 {
			return fmt.Errorf("%w: hmo rooms, rent and bills must not be negative", ErrInvalidInput)
		}
		return validateVoidWeeks(h.VoidWeeks)

	case StrategyShortLet:
		sl := s.ShortLet
		if sl == nil {
			return fmt.Errorf("%w: short let strategy details missing", ErrInvalidInput)
		}
		if sl.NightlyRate < 0 || sl.CleaningCostPerStay < 0 || sl.AverageStayNights < 0 {
			return fmt.Errorf("%w: short let rate and costs must not be negative", ErrInvalidInput)
		}
		if sl.OccupancyPercent < 0 || sl.OccupancyPercent > 100 ||
			sl.PlatformFeePercent < 0 || sl.PlatformFeePercent > 100 {
			return fmt.Errorf("%w: short let percentages must be within [0,100]", ErrInvalidInput)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, s.Kind)
}

func validateVoidWeeks(weeks float64) error {
	if weeks < 0 || weeks > 52 {
		return fmt.Errorf("%w: void weeks %.1f outside [0,52]", ErrInvalidInput, weeks)
	}
	return nil
}

// Clone copies the variant so the copy can be modified independently.
func (s StrategyInput) Clone() StrategyInput {
	out := StrategyInput{Kind: s.Kind}
	if s.BTL != nil {
		v := *s.BTL
		out.BTL = &v
	}
	if s.Student != nil {
		v := *s.Student
		out.Student = &v
	}
	if s.HMO != nil {
		v := *s.HMO
		out.HMO = &v
	}
	if s.ShortLet != nil {
		v := *s.ShortLet
		out.ShortLet = &v
	}
	return out
}
