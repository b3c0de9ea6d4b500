package utils

import (
	"hms/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputePricing(t *testing.T) {
	result, err := ComputePricing(PricingInput{
		BaseRoomRate:   100,
		NumberOfNights: 3,
		ExtraCharges:   50,
		DiscountType:   types.DISCOUNT_PERCENTAGE,
		DiscountValue:  10,
		ServiceCharge:  20,
		Tax:            35,
		AdvanceAmount:  100,
	})
	assert.Nil(t, err)
	assert.Equal(t, 300.0, result.TotalRoomCharge)
	assert.Equal(t, 350.0, result.Subtotal)
	assert.Equal(t, 35.0, result.DiscountAmount)
	assert.Equal(t, 370.0, result.TotalAmount)
	assert.Equal(t, 270.0, result.BalanceAmount)
	assert.Equal(t, types.PAYMENT_PARTIAL, result.PaymentStatus)
}

func TestComputePricingThreeNightStay(t *testing.T) {
	result, err := ComputePricing(PricingInput{
		BaseRoomRate:   5000,
		NumberOfNights: 3,
		DiscountType:   types.DISCOUNT_PERCENTAGE,
		DiscountValue:  10,
		ServiceCharge:  500,
		Tax:            200,
		AdvanceAmount:  10000,
	})
	assert.Nil(t, err)
	assert.Equal(t, 15000.0, result.TotalRoomCharge)
	assert.Equal(t, 15000.0, result.Subtotal)
	assert.Equal(t, 1500.0, result.DiscountAmount)
	assert.Equal(t, 14200.0, result.TotalAmount)
	assert.Equal(t, 4200.0, result.BalanceAmount)
	assert.Equal(t, types.PAYMENT_PARTIAL, result.PaymentStatus)
}

func TestComputePricingFixedDiscount(t *testing.T) {
	result, err := ComputePricing(PricingInput{
		BaseRoomRate:   80,
		NumberOfNights: 2,
		DiscountType:   types.DISCOUNT_FIXED,
		DiscountValue:  25,
	})
	assert.Nil(t, err)
	assert.Equal(t, 160.0, result.TotalRoomCharge)
	assert.Equal(t, 25.0, result.DiscountAmount)
	assert.Equal(t, 135.0, result.TotalAmount)
	assert.Equal(t, types.PAYMENT_PENDING, result.PaymentStatus)
}

func TestComputePricingNoDiscountType(t *testing.T) {
	// A discount value with no discount type must not reduce the total.
	result, err := ComputePricing(PricingInput{
		BaseRoomRate:   100,
		NumberOfNights: 1,
		DiscountType:   types.DISCOUNT_NONE,
		DiscountValue:  50,
	})
	assert.Nil(t, err)
	assert.Equal(t, 0.0, result.DiscountAmount)
	assert.Equal(t, 100.0, result.TotalAmount)
}

func TestComputePricingOverpaid(t *testing.T) {
	// Advance above the total clamps the balance at zero.
	result, err := ComputePricing(PricingInput{
		BaseRoomRate:   100,
		NumberOfNights: 1,
		AdvanceAmount:  500,
	})
	assert.Nil(t, err)
	assert.Equal(t, 0.0, result.BalanceAmount)
	assert.Equal(t, types.PAYMENT_PAID, result.PaymentStatus)
}

func TestComputePricingExactPayment(t *testing.T) {
	result, err := ComputePricing(PricingInput{
		BaseRoomRate:   100,
		NumberOfNights: 2,
		AdvanceAmount:  200,
	})
	assert.Nil(t, err)
	assert.Equal(t, 0.0, result.BalanceAmount)
	assert.Equal(t, types.PAYMENT_PAID, result.PaymentStatus)
}

func TestComputePricingRejectsNegativeInputs(t *testing.T) {
	_, err := ComputePricing(PricingInput{
		BaseRoomRate:   -10,
		NumberOfNights: 1,
	})
	assert.NotNil(t, err)

	_, err = ComputePricing(PricingInput{
		BaseRoomRate:   100,
		NumberOfNights: 1,
		ExtraCharges:   -5,
	})
	assert.NotNil(t, err)
}

func TestComputePricingRejectsPercentageAbove100(t *testing.T) {
	_, err := ComputePricing(PricingInput{
		BaseRoomRate:   100,
		NumberOfNights: 1,
		DiscountType:   types.DISCOUNT_PERCENTAGE,
		DiscountValue:  150,
	})
	assert.NotNil(t, err)
}

func TestComputePricingMinimumOneNight(t *testing.T) {
	result, err := ComputePricing(PricingInput{
		BaseRoomRate:   100,
		NumberOfNights: 0,
	})
	assert.Nil(t, err)
	assert.Equal(t, 100.0, result.TotalRoomCharge)
}

func TestNightsBetween(t *testing.T) {
	day := func(d string) time.Time {
		parsed, err := time.Parse("2006-01-02", d)
		assert.Nil(t, err)
		return parsed
	}

	assert.Equal(t, 3, NightsBetween(day("2026-06-05"), day("2026-06-08")))
	assert.Equal(t, 1, NightsBetween(day("2026-06-05"), day("2026-06-06")))
	assert.Equal(t, 1, NightsBetween(day("2026-06-05"), day("2026-06-05")))
	assert.Equal(t, 1, NightsBetween(day("2026-06-08"), day("2026-06-05")))
}

func TestRangesOverlap(t *testing.T) {
	day := func(d string) time.Time {
		parsed, err := time.Parse("2006-01-02", d)
		assert.Nil(t, err)
		return parsed
	}

	// Back-to-back stays share a day without overlapping.
	assert.False(t, RangesOverlap(
		day("2026-06-01"), day("2026-06-05"),
		day("2026-06-05"), day("2026-06-08"),
	))
	assert.False(t, RangesOverlap(
		day("2026-06-05"), day("2026-06-08"),
		day("2026-06-01"), day("2026-06-05"),
	))

	assert.True(t, RangesOverlap(
		day("2026-06-01"), day("2026-06-05"),
		day("2026-06-04"), day("2026-06-08"),
	))
	// A contained stay overlaps.
	assert.True(t, RangesOverlap(
		day("2026-06-01"), day("2026-06-05"),
		day("2026-06-02"), day("2026-06-03"),
	))
	assert.True(t, RangesOverlap(
		day("2026-06-02"), day("2026-06-03"),
		day("2026-06-01"), day("2026-06-05"),
	))

	assert.False(t, RangesOverlap(
		day("2026-06-01"), day("2026-06-03"),
		day("2026-06-10"), day("2026-06-12"),
	))
}
