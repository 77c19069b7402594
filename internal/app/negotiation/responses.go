package negotiation

import (
	"strconv"
	"strings"

	"cleaning-backend/internal/app/pricing"
)

func acceptedResponse(note string) string {
	return withNote("Accepted.", note)
}

func counterResponse(price float64, note string) string {
	return withNote("Counter-offer: $"+pricing.FormatAmount(price)+".", note)
}

func cancelledResponse(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "Cancelled."
	}
	return "Cancelled. Reason: " + reason
}

func declinedResponse(reason string) string {
	return "Declined by manager. Reason: " + strings.TrimSpace(reason)
}

func withNote(prefix, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return prefix
	}
	return prefix + " " + note
}

// counterNote отбрасывает комментарий, который просто повторяет сумму встречного предложения
func counterNote(note string, price float64) string {
	note = strings.TrimSpace(note)
	plain := strings.TrimPrefix(note, "$")
	plain = strings.ReplaceAll(plain, ",", "")
	if value, err := strconv.ParseFloat(strings.TrimSpace(plain), 64); err == nil && pricing.SameAmount(value, price) {
		return ""
	}
	return note
}
