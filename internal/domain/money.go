package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	// ConversionRate converts catalog prices (USD) to rupees.
	ConversionRate = 80
	PaisePerRupee  = 100
	DeliveryFeeUSD = 2
	// MinOrderPaise is ₹50.
	MinOrderPaise int64 = 5000
)

var SettlementCurrency = currency.INR

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// MoneyFromPaise expresses a paise amount in rupees.
func MoneyFromPaise(paise int64) Money {
	return Money{
		Amount:   decimal.New(paise, 0).Div(decimal.NewFromInt(PaisePerRupee)),
		Currency: SettlementCurrency,
	}
}

func (m Money) Float64() float64 {
	return m.Amount.InexactFloat64()
}

// CurrencyCode is the lower-case ISO code payment providers expect, e.g. "inr".
func (m Money) CurrencyCode() string {
	return strings.ToLower(m.Currency.String())
}

// Pricing holds the conversion and fee rules applied when an order is placed.
type Pricing struct {
	ConversionRate int64
	DeliveryFeeUSD decimal.Decimal
	MinOrderPaise  int64
}

func DefaultPricing() Pricing {
	return Pricing{
		ConversionRate: ConversionRate,
		DeliveryFeeUSD: decimal.NewFromInt(DeliveryFeeUSD),
		MinOrderPaise:  MinOrderPaise,
	}
}

// ToPaise converts a catalog price to integer paise in the settlement currency.
func (p Pricing) ToPaise(price float64) int64 {
	return p.toPaise(decimal.NewFromFloat(price))
}

// DeliveryFeePaise is 16000 paise (₹160) with the default rules.
func (p Pricing) DeliveryFeePaise() int64 {
	return p.toPaise(p.DeliveryFeeUSD)
}

var maxPaise = decimal.NewFromInt(math.MaxInt64)

// toPaise saturates at math.MaxInt64 so callers can detect overflow.
func (p Pricing) toPaise(price decimal.Decimal) int64 {
	paise := price.
		Mul(decimal.NewFromInt(p.ConversionRate * PaisePerRupee)).
		Round(0)
	if paise.GreaterThan(maxPaise) {
		return math.MaxInt64
	}
	return paise.IntPart()
}
