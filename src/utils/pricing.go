package utils

import (
	"fmt"
	"hms/src/types"
	"math"
	"time"
)

type PricingInput struct {
	BaseRoomRate   float64
	NumberOfNights int
	ExtraCharges   float64
	DiscountType   types.DiscountType
	DiscountValue  float64
	ServiceCharge  float64
	Tax            float64
	AdvanceAmount  float64
}

type PricingResult struct {
	TotalRoomCharge float64
	Subtotal        float64
	DiscountAmount  float64
	TotalAmount     float64
	BalanceAmount   float64
	PaymentStatus   types.PaymentStatus
}

// ComputePricing derives all monetary fields of a stay from the raw inputs.
// Negative monetary values and percentage discounts outside [0,100] are
// rejected instead of flowing into the totals.
func ComputePricing(in PricingInput) (*PricingResult, error) {
	for name, v := range map[string]float64{
		"base_room_rate": in.BaseRoomRate,
		"extra_charges":  in.ExtraCharges,
		"discount_value": in.DiscountValue,
		"service_charge": in.ServiceCharge,
		"tax":            in.Tax,
		"advance_amount": in.AdvanceAmount,
	} {
		if v < 0 {
			return nil, fmt.Errorf("%s must not be negative", name)
		}
	}
	nights := in.NumberOfNights
	if nights < 1 {
		nights = 1
	}

	totalRoomCharge := in.BaseRoomRate * float64(nights)
	subtotal := totalRoomCharge + in.ExtraCharges

	var discountAmount float64
	switch in.DiscountType {
	case types.DISCOUNT_PERCENTAGE:
		if in.DiscountValue > 100 {
			return nil, fmt.Errorf("discount_value must be between 0 and 100 for a percentage discount")
		}
		discountAmount = subtotal * in.DiscountValue / 100
	case types.DISCOUNT_FIXED:
		discountAmount = in.DiscountValue
	default:
		discountAmount = 0
	}

	totalAmount := subtotal - discountAmount + in.ServiceCharge + in.Tax
	balanceAmount := math.Max(0, totalAmount-in.AdvanceAmount)

	paymentStatus := types.PAYMENT_PENDING
	if in.AdvanceAmount >= totalAmount {
		paymentStatus = types.PAYMENT_PAID
	} else if in.AdvanceAmount > 0 {
		paymentStatus = types.PAYMENT_PARTIAL
	}

	return &PricingResult{
		TotalRoomCharge: totalRoomCharge,
		Subtotal:        subtotal,
		DiscountAmount:  discountAmount,
		TotalAmount:     totalAmount,
		BalanceAmount:   balanceAmount,
		PaymentStatus:   paymentStatus,
	}, nil
}

// NightsBetween counts billable nights, never less than one.
func NightsBetween(checkIn, checkOut time.Time) int {
	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	return nights
}

// RangesOverlap tests two half-open [in, out) stay intervals. A stay ending
// exactly when another begins does not overlap, so a checkout day can be
// reused as a check-in day.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}
