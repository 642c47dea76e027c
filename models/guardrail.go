package models

// Maximum discount percentage allowed without an explicit approval, per priority.
var discountGuardrails = map[Priority]float64{
	PriorityHigh:   25,
	PriorityMedium: 15,
	PriorityLow:    5,
}

// MaxDiscount returns the guardrail cap for a priority. Unknown priorities get
// no discount room at all.
func MaxDiscount(priority Priority) float64 {
	return discountGuardrails[priority]
}

func BreachesGuardrail(priority Priority, discountPct float64) bool {
	return discountPct > MaxDiscount(priority)
}
