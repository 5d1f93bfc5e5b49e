package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
)

// ErrInvalidFormula is returned when an installment formula cannot be evaluated.
var ErrInvalidFormula = errors.New("invalid installment formula")

// ErrValueTooPrecise is returned when the contract value cannot be handed to a
// formula without losing digits.
var ErrValueTooPrecise = errors.New("contract value exceeds formula precision")

// formulaValueVar is the variable installment formulas use for the contract value.
const formulaValueVar = "Valor"

// InstallmentRule describes one installment, e.g. {Label: "Entrada", Formula: "Valor * 0.3", MonthOffset: 0}.
type InstallmentRule struct {
	Label       string `json:"label"`
	Formula     string `json:"formula"`
	MonthOffset int    `json:"month_offset"`
}

type Installment struct {
	Number  int             `json:"number"`
	Label   string          `json:"label"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// PaymentPlan is the evaluated schedule; Remainder is value minus the sum of installments.
type PaymentPlan struct {
	Value        decimal.Decimal `json:"value"`
	Installments []Installment   `json:"installments"`
	Total        decimal.Decimal `json:"total"`
	Remainder    decimal.Decimal `json:"remainder"`
}

// BuildPaymentPlan evaluates each rule against the contract value.
func BuildPaymentPlan(value decimal.Decimal, start time.Time, rules []InstallmentRule) (*PaymentPlan, error) {
	asFloat := value.InexactFloat64()
	if !decimal.NewFromFloat(asFloat).Equal(value) {
		return nil, fmt.Errorf("%w: %s", ErrValueTooPrecise, value)
	}
	params := map[string]interface{}{
		formulaValueVar: asFloat,
	}

	plan := &PaymentPlan{
		Value:        value,
		Installments: make([]Installment, 0, len(rules)),
		Total:        decimal.Zero,
	}

	for i, rule := range rules {
		formula := strings.TrimSpace(rule.Formula)
		if formula == "" {
			return nil, fmt.Errorf("%w: installment %d has no formula", ErrInvalidFormula, i+1)
		}

		expression, err := govaluate.NewEvaluableExpression(formula)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFormula, formula, err)
		}
		result, err := expression.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFormula, formula, err)
		}
		amount, ok := result.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %q does not produce a number", ErrInvalidFormula, formula)
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, fmt.Errorf("%w: %q does not produce a finite number", ErrInvalidFormula, formula)
		}

		label := strings.TrimSpace(rule.Label)
		if label == "" {
			label = fmt.Sprintf("Parcela %d", i+1)
		}

		installment := Installment{
			Number:  i + 1,
			Label:   label,
			DueDate: start.AddDate(0, rule.MonthOffset, 0),
			Amount:  decimal.NewFromFloat(amount).Round(2),
		}
		plan.Installments = append(plan.Installments, installment)
		plan.Total = plan.Total.Add(installment.Amount)
	}

	plan.Remainder = value.Sub(plan.Total)
	return plan, nil
}
