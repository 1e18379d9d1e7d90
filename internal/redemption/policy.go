package redemption

import "time"

type Category string

const (
	CategoryCourtBooking    Category = "court_booking"
	CategoryCoachingLesson  Category = "coaching_lesson"
	CategoryGroupClinic     Category = "group_clinic"
	CategoryEquipmentRental Category = "equipment_rental"
	CategoryProShop         Category = "pro_shop"
)

// ServicePolicy caps how much of a service's price may be paid in tokens,
// optionally restricted to certain weekdays and hours.
type ServicePolicy struct {
	Category         Category       `json:"category"`
	MaxRedemptionPct int            `json:"max_redemption_pct"`
	AllowedWeekdays  []time.Weekday `json:"allowed_weekdays,omitempty"`
	AllowedHourFrom  *int           `json:"allowed_hour_from,omitempty"`
	AllowedHourTo    *int           `json:"allowed_hour_to,omitempty"` // exclusive
}

func hourRange(from, to int) (*int, *int) {
	return &from, &to
}

// policies is the published redemption configuration per service category.
var policies = func() map[Category]ServicePolicy {
	clinicFrom, clinicTo := hourRange(8, 20)
	m := map[Category]ServicePolicy{
		CategoryCourtBooking: {
			Category:         CategoryCourtBooking,
			MaxRedemptionPct: 50,
		},
		CategoryCoachingLesson: {
			Category:         CategoryCoachingLesson,
			MaxRedemptionPct: 25,
		},
		CategoryGroupClinic: {
			Category:         CategoryGroupClinic,
			MaxRedemptionPct: 30,
			AllowedWeekdays: []time.Weekday{
				time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
			},
			AllowedHourFrom: clinicFrom,
			AllowedHourTo:   clinicTo,
		},
		CategoryEquipmentRental: {
			Category:         CategoryEquipmentRental,
			MaxRedemptionPct: 40,
		},
		CategoryProShop: {
			Category:         CategoryProShop,
			MaxRedemptionPct: 20,
		},
	}
	return m
}()

// PolicyFor returns the policy for a category.
func PolicyFor(category Category) (ServicePolicy, bool) {
	p, ok := policies[category]
	return p, ok
}

// AllowsTime checks the policy's weekday and hour restrictions against a
// scheduled service time. Unrestricted policies allow any time.
func (p ServicePolicy) AllowsTime(at time.Time) bool {
	if len(p.AllowedWeekdays) > 0 {
		allowed := false
		for _, wd := range p.AllowedWeekdays {
			if at.Weekday() == wd {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	if p.AllowedHourFrom != nil && at.Hour() < *p.AllowedHourFrom {
		return false
	}
	if p.AllowedHourTo != nil && at.Hour() >= *p.AllowedHourTo {
		return false
	}

	return true
}
