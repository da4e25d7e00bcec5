package goalseek

import (
	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/modules/deal"
	"github.com/damo1005/dealflow-properties-sub003/pkg/formulas"
)

// Direction is the sign of a goal metric's response to an increase in a variable.
type Direction int

const (
	NoEffect   Direction = 0
	Increasing Direction = 1
	Decreasing Direction = -1
)

// NeedsIncrease reports whether the variable must rise to move the metric from current
// towards target.
func (d Direction) NeedsIncrease(current, target float64) bool {
	metricUp := target > current
	if d == Decreasing {
		return !metricUp
	}
	return metricUp
}

// Rule resolves the direction of a (variable, goal) pair for one deal. m holds the deal's
// metrics at its current values.
type Rule func(in domain.DealInput, m deal.Metrics) Direction

// Monotonicity maps each adjustable variable and goal to the rule giving the direction the goal
// moves when the variable increases.
//
// Raising the price raises the cash required and lowers cash flow on a financed deal. A larger
// deposit raises cash flow and the cash required, and moves ROI towards the loan's debt
// constant. Net yield is measured before finance, so neither deposit nor rate moves it.
var Monotonicity = map[domain.Variable]map[domain.Goal]Rule{
	domain.VarPurchasePrice: {
		domain.GoalCashFlow:        priceCashFlow,
		domain.GoalROI:             priceROI,
		domain.GoalNetYield:        priceNetYield,
		domain.GoalMaxCashRequired: always(Increasing),
	},
	domain.VarMonthlyRent: {
		domain.GoalCashFlow:        rentIncome,
		domain.GoalROI:             rentIncome,
		domain.GoalNetYield:        rentIncome,
		domain.GoalMaxCashRequired: always(NoEffect),
	},
	domain.VarDepositPercent: {
		domain.GoalCashFlow:        depositCashFlow,
		domain.GoalROI:             depositROI,
		domain.GoalNetYield:        always(NoEffect),
		domain.GoalMaxCashRequired: always(Increasing),
	},
	domain.VarMortgageRate: {
		domain.GoalCashFlow:        rateCost,
		domain.GoalROI:             rateCost,
		domain.GoalNetYield:        always(NoEffect),
		domain.GoalMaxCashRequired: always(NoEffect),
	},
}

// DirectionOf looks up the direction of goal against v for a deal.
func DirectionOf(v domain.Variable, goal domain.Goal, in domain.DealInput, m deal.Metrics) Direction {
	rule, ok := Monotonicity[v][goal]
	if !ok {
		return NoEffect
	}
	return rule(in, m)
}

func always(d Direction) Rule {
	return func(domain.DealInput, deal.Metrics) Direction { return d }
}

func signOf(x float64) Direction {
	switch {
	case x > 0:
		return Increasing
	case x < 0:
		return Decreasing
	}
	return NoEffect
}

// debtConstant is the annual debt service per pound borrowed.
func debtConstant(fin domain.FinancingInput) float64 {
	if fin.IsCash() {
		return 0
	}
	return formulas.AnnualDebtService(1, fin.InterestRate, fin.TermYears, fin.InterestOnly)
}

// acquisitionCosts is the cash required on top of the deposit.
func acquisitionCosts(m deal.Metrics) float64 {
	return m.CashRequired.Total - m.CashRequired.Deposit
}

// priceCashFlow: only debt service scales with price, so a cash purchase is unaffected.
func priceCashFlow(in domain.DealInput, m deal.Metrics) Direction {
	return -signOf(m.LoanAmount * debtConstant(in.Financing))
}

// priceROI signs d(ROI)/d(price) with the stamp duty held at its current amount:
// ROI falls with price when L·k·costs + NOI·(1−L) is positive.
func priceROI(in domain.DealInput, m deal.Metrics) Direction {
	ltv := formulas.SafeDiv(m.LoanAmount, m.PurchasePrice, 0)
	x := ltv*debtConstant(in.Financing)*acquisitionCosts(m) + m.NetOperatingIncome()*(1-ltv)
	if x < 0 {
		return Increasing
	}
	return Decreasing
}

func priceNetYield(_ domain.DealInput, m deal.Metrics) Direction {
	return -signOf(m.NetOperatingIncome())
}

// rentIncome: each extra pound of rent keeps what management and maintenance leave of it.
func rentIncome(in domain.DealInput, _ deal.Metrics) Direction {
	return signOf(100 - in.Costs.ManagementPercent - in.Costs.MaintenancePercent)
}

func depositCashFlow(in domain.DealInput, _ deal.Metrics) Direction {
	return signOf(debtConstant(in.Financing))
}

// depositROI: ROI moves towards the debt constant as the deposit grows, so it rises when
// borrowing costs more than the unlevered return on the whole outlay.
func depositROI(in domain.DealInput, m deal.Metrics) Direction {
	outlay := m.PurchasePrice + acquisitionCosts(m)
	return signOf(debtConstant(in.Financing)*outlay - m.NetOperatingIncome())
}

func rateCost(_ domain.DealInput, m deal.Metrics) Direction {
	return -signOf(m.LoanAmount)
}

// Variables lists the adjustable variables in the order alternatives are tried.
var Variables = []domain.Variable{
	domain.VarPurchasePrice,
	domain.VarMonthlyRent,
	domain.VarDepositPercent,
	domain.VarMortgageRate,
}

// Goals lists the supported goals.
var Goals = []domain.Goal{
	domain.GoalCashFlow,
	domain.GoalROI,
	domain.GoalNetYield,
	domain.GoalMaxCashRequired,
}

// variableTolerance is the smallest step worth searching, in the variable's own units.
var variableTolerance = map[domain.Variable]float64{
	domain.VarPurchasePrice:  1,
	domain.VarMonthlyRent:    0.5,
	domain.VarDepositPercent: 0.01,
	domain.VarMortgageRate:   0.001,
}

// variablePrecision is the number of decimals a resolved value is reported with.
var variablePrecision = map[domain.Variable]int{
	domain.VarPurchasePrice:  2,
	domain.VarMonthlyRent:    2,
	domain.VarDepositPercent: 4,
	domain.VarMortgageRate:   4,
}

// goalTolerance is how close a metric must come to its target to count as achieved.
var goalTolerance = map[domain.Goal]float64{
	domain.GoalCashFlow:        1,
	domain.GoalROI:             0.05,
	domain.GoalNetYield:        0.01,
	domain.GoalMaxCashRequired: 50,
}

// searchBounds returns the interval a variable may move within.
func searchBounds(v domain.Variable, current float64) (lo, hi float64) {
	switch v {
	case domain.VarDepositPercent:
		return 5, 50
	case domain.VarMortgageRate:
		return 2, 10
	default:
		return current * 0.7, current * 1.3
	}
}
