package booking

import (
	"fmt"
	"time"
)

const (
	firstSlotHour = 9
	lastSlotHour  = 17
)

// GenerateTimeSlots lists bookable times every 30 minutes from 09:00 up to
// and including 17:00.
func GenerateTimeSlots() []string {
	slots := make([]string, 0, (lastSlotHour-firstSlotHour)*2+1)
	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		for minute := 0; minute < 60; minute += 30 {
			if hour == lastSlotHour && minute > 0 {
				break
			}
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// MinDate is the earliest selectable appointment date (YYYY-MM-DD, UTC)
func MinDate(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}
