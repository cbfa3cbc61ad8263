// Package pricing filters plans by age and computes discounted prices.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"quoteflow/internal/registration/models"
)

const (
	// ThirdPartyDiscount applies when the plan covers someone other than the user.
	ThirdPartyDiscount = 0.05
	// SeniorDiscount is the optional extra discount for users aged SeniorAge or older.
	SeniorDiscount = 0.10
	SeniorAge      = 60
)

// FilterByAge returns the plans the given age is eligible for, in input order.
// The input slice is not modified.
func FilterByAge(plans []models.Plan, age int) []models.Plan {
	out := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		if p.EligibleFor(age) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Savings is the difference between a base price and its discounted price.
type Savings struct {
	Amount     float64 `json:"amount"`
	Percentage int     `json:"percentage"`
	HasSavings bool    `json:"hasSavings"`
}

// ComputeSavings reports how much final saves against original. Amount is the
// raw difference; the percentage is rounded to the nearest whole number.
func ComputeSavings(original, final float64) Savings {
	amount := original - final
	var pct int
	if original != 0 {
		pct = int(math.Round(amount / original * 100))
	}
	return Savings{
		Amount:     amount,
		Percentage: pct,
		HasSavings: amount > 0,
	}
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithSeniorDiscount enables the extra discount for users aged SeniorAge or older.
func WithSeniorDiscount() Option {
	return func(c *Calculator) {
		c.senior = true
	}
}

// Calculator prices plans. The zero value applies only the third-party discount.
type Calculator struct {
	senior bool
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeniorDiscountEnabled reports whether the age discount is applied.
func (c *Calculator) SeniorDiscountEnabled() bool {
	return c.senior
}

// FinalPrice applies the third-party discount, then the senior discount when
// enabled, and rounds to cents half-up.
func (c *Calculator) FinalPrice(base float64, isForSomeoneElse bool, age int) float64 {
	price := base
	if isForSomeoneElse {
		price *= 1 - ThirdPartyDiscount
	}
	if c.senior && age >= SeniorAge {
		price *= 1 - SeniorDiscount
	}
	return roundCents(price)
}

// Select prices plan for the coverage target and the user's age.
func (c *Calculator) Select(plan models.Plan, isForSomeoneElse bool, age int) models.SelectedPlan {
	return models.SelectedPlan{
		Plan:             plan.Clone(),
		FinalPrice:       c.FinalPrice(plan.Price, isForSomeoneElse, age),
		IsForSomeoneElse: isForSomeoneElse,
	}
}

// roundCents rounds half up on the cents digit of the decimal value. The value
// is first printed with nine decimals so float noise (9.594999999999999 for
// 9.595) does not decide the rounding.
func roundCents(v float64) float64 {
	s := strconv.FormatFloat(math.Abs(v), 'f', 9, 64)
	whole, frac, _ := strings.Cut(s, ".")
	cents, err := strconv.ParseInt(whole+frac[:2], 10, 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	if frac[2] >= '5' {
		cents++
	}
	r := float64(cents) / 100
	if v < 0 {
		r = -r
	}
	return r
}
