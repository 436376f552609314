package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WorkingDaysPerMonth converts a monthly rate into a daily rate.
const WorkingDaysPerMonth = 26

// Salary info keys.
const (
	SalaryDailyRate   = "daily_rate"
	SalaryMonthlyRate = "monthly_rate"
	allowanceSuffix   = "_allowance"
)

// DeductionKeys are the salary info entries withheld every period.
var DeductionKeys = []string{"sss", "philhealth", "pagibig", "sss_loan", "pagibig_loan", "tax"}

type CalculationInput struct {
	SalaryInfo     map[string]decimal.Decimal
	DaysWorked     decimal.Decimal
	HolidaysWorked decimal.Decimal
}

type Computation struct {
	DailyRate       decimal.Decimal
	BasicPay        decimal.Decimal
	HolidayPay      decimal.Decimal
	Allowances      map[string]decimal.Decimal
	TotalAllowances decimal.Decimal
	GrossPay        decimal.Decimal
	Deductions      map[string]decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// DailyRate reads daily_rate, falling back to monthly_rate / 26.
func DailyRate(salary map[string]decimal.Decimal) decimal.Decimal {
	if rate, ok := salary[SalaryDailyRate]; ok && rate.IsPositive() {
		return rate
	}
	if monthly, ok := salary[SalaryMonthlyRate]; ok && monthly.IsPositive() {
		return monthly.Div(decimal.NewFromInt(WorkingDaysPerMonth)).Round(2)
	}
	return decimal.Zero
}

// Calculate computes one payslip. A worked holiday earns one extra daily
// rate on top of the basic pay already counted for that day. All amounts
// are rounded to centavos.
func Calculate(in CalculationInput) Computation {
	rate := DailyRate(in.SalaryInfo)
	c := Computation{
		DailyRate:  rate,
		BasicPay:   rate.Mul(in.DaysWorked).Round(2),
		HolidayPay: rate.Mul(in.HolidaysWorked).Round(2),
		Allowances: map[string]decimal.Decimal{},
		Deductions: map[string]decimal.Decimal{},
	}

	c.TotalAllowances = decimal.Zero
	for k, v := range in.SalaryInfo {
		if strings.HasSuffix(k, allowanceSuffix) {
			c.Allowances[strings.TrimSuffix(k, allowanceSuffix)] = v.Round(2)
			c.TotalAllowances = c.TotalAllowances.Add(v.Round(2))
		}
	}

	c.TotalDeductions = decimal.Zero
	for _, k := range DeductionKeys {
		if v, ok := in.SalaryInfo[k]; ok && !v.IsZero() {
			c.Deductions[k] = v.Round(2)
			c.TotalDeductions = c.TotalDeductions.Add(v.Round(2))
		}
	}

	c.GrossPay = c.BasicPay.Add(c.HolidayPay).Add(c.TotalAllowances)
	c.NetPay = c.GrossPay.Sub(c.TotalDeductions)
	return c
}
