package salary

import "strings"

// Period is the pay period a salary figure was quoted in.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
	Daily   Period = "daily"
	Hourly  Period = "hourly"
)

// Working days and hours per month used to lift daily and hourly rates.
const (
	workDaysPerMonth  = 21.75
	workHoursPerMonth = 174.0
)

var unitMultipliers = map[string]float64{
	"k": 1000,
	"千": 1000,
	"万": 10000,
	"元": 1,
}

// periodFactors lift an amount quoted in a period to its monthly equivalent.
var periodFactors = map[Period]float64{
	Monthly: 1,
	Yearly:  1.0 / 12,
	Daily:   workDaysPerMonth,
	Hourly:  workHoursPerMonth,
}

var periodTokens = map[string]Period{
	"月":  Monthly,
	"年":  Yearly,
	"天":  Daily,
	"小时": Hourly,
}

// UnitMultiplier returns the currency multiplier for a unit suffix such as
// "k", "千" or "万". Unknown and empty units are bare currency (×1).
func UnitMultiplier(unit string) float64 {
	if m, ok := unitMultipliers[strings.ToLower(unit)]; ok {
		return m
	}
	return 1
}

// PeriodFromToken maps a period symbol (月/年/天/小时) to a Period.
// Empty or unrecognised tokens are monthly.
func PeriodFromToken(token string) Period {
	if p, ok := periodTokens[token]; ok {
		return p
	}
	return Monthly
}

// Factor returns the multiplier from this period to monthly. Unknown periods
// are treated as monthly.
func (p Period) Factor() float64 {
	if f, ok := periodFactors[p]; ok {
		return f
	}
	return 1
}

// ToMonthly converts an absolute amount quoted in this period to its monthly
// equivalent. Yearly amounts are divided rather than multiplied by Factor so
// that whole-yuan results are exact.
func (p Period) ToMonthly(amount float64) float64 {
	switch p {
	case Yearly:
		return amount / 12
	case Daily:
		return amount * workDaysPerMonth
	case Hourly:
		return amount * workHoursPerMonth
	default:
		return amount
	}
}

// Valid reports whether p is one of the four known periods.
func (p Period) Valid() bool {
	switch p {
	case Monthly, Yearly, Daily, Hourly:
		return true
	}
	return false
}

func (p Period) String() string { return string(p) }
