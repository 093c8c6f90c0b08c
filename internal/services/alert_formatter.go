package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"showgrounds/paddock/internal/constants"
)

// CompletedLine is one of our horses in a Class Completed alert. Matched is
// false when the provider returned no trip for the entry.
type CompletedLine struct {
	Horse   string
	Matched bool
	Placing *int
	Prize   decimal.NullDecimal
}

// StartedLine is one of our horses in a Class Started alert
type StartedLine struct {
	Horse     string
	OrderOfGo *int
}

func isRealPlacing(p *int) bool {
	return p != nil && *p > 0 && *p < constants.UnplacedPlacing
}

// decimalOr renders d, or fallback when null
func decimalOr(d decimal.NullDecimal, fallback string) string {
	if !d.Valid {
		return fallback
	}
	return d.Decimal.String()
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// FormatStatusChange renders a STATUS_CHANGE alert. Underway and In Progress
// render as Class Started, Completed as Class Completed with our results.
func FormatStatusChange(newStatus, className, ringName string, started []StartedLine, completed []CompletedLine) string {
	className = orUnknown(className, constants.UnknownClass)
	ringName = orUnknown(ringName, constants.UnknownRing)

	switch newStatus {
	case constants.ClassStatusCompleted:
		var b strings.Builder
		fmt.Fprintf(&b, "🏁 Class Completed\n\n📋 %s\n📍 %s\n\nOur Results:", className, ringName)
		for _, l := range completed {
			horse := orUnknown(l.Horse, constants.UnknownHorse)
			switch {
			case !l.Matched:
				fmt.Fprintf(&b, "\n  %s", horse)
			case isRealPlacing(l.Placing):
				fmt.Fprintf(&b, "\n  %s — Place #%d, $%s", horse, *l.Placing, decimalOr(l.Prize, "0"))
			default:
				fmt.Fprintf(&b, "\n  %s — No placing", horse)
			}
		}
		return b.String()

	case constants.ClassStatusUnderway, constants.ClassStatusInProgress:
		horses := make([]string, 0, len(started))
		orders := make([]string, 0, len(started))
		for _, l := range started {
			horses = append(horses, orUnknown(l.Horse, constants.UnknownHorse))
			if l.OrderOfGo != nil {
				orders = append(orders, strconv.Itoa(*l.OrderOfGo))
			} else {
				orders = append(orders, "unk")
			}
		}
		return fmt.Sprintf("🟢 Class Started\n\n📋 %s\n📍 %s\n🐴 Our horses: %s\n#️⃣ Order: %s",
			className, ringName, strings.Join(horses, ", "), strings.Join(orders, ", "))
	}

	return fmt.Sprintf("Status: %s\n\n📋 %s\n📍 %s", newStatus, className, ringName)
}

func FormatTimeChange(className, ringName, oldTime, newTime string) string {
	return fmt.Sprintf("⏰ Time Change\n\n📋 %s\n📍 %s\n🕐 %s → %s",
		orUnknown(className, constants.UnknownClass),
		orUnknown(ringName, constants.UnknownRing),
		orUnknown(oldTime, constants.NoValue),
		orUnknown(newTime, constants.NoValue),
	)
}

func FormatProgress(className, ringName string, completed, total int) string {
	return fmt.Sprintf("📊 Progress Update\n\n📋 %s\n📍 %s\nCompleted: %d/%d",
		orUnknown(className, constants.UnknownClass),
		orUnknown(ringName, constants.UnknownRing),
		completed, total,
	)
}

func FormatResult(horse, className string, placing int, prize decimal.NullDecimal) string {
	return fmt.Sprintf("🏆 Result!\n\n🐴 %s\n📋 %s\n🥇 Place: #%d\n💰 Prize: $%s",
		orUnknown(horse, constants.UnknownHorse),
		orUnknown(className, constants.UnknownClass),
		placing,
		decimalOr(prize, "0"),
	)
}

func FormatTripCompleted(horse, className string, faults, timeOne decimal.NullDecimal) string {
	return fmt.Sprintf("✅ Trip Completed\n\n🐴 %s\n📋 %s\n📊 Faults: %s | Time: %ss",
		orUnknown(horse, constants.UnknownHorse),
		orUnknown(className, constants.UnknownClass),
		decimalOr(faults, constants.NoValue),
		decimalOr(timeOne, constants.NoValue),
	)
}

func FormatScratched(horse, className string) string {
	return fmt.Sprintf("❌ Horse Scratched\n\n🐴 %s\n📋 %s",
		orUnknown(horse, constants.UnknownHorse),
		orUnknown(className, constants.UnknownClass),
	)
}

// NextClass describes the horse's next entry for an availability message
type NextClass struct {
	ClassName  string
	Time       string
	RingName   string
	OrderOfGo  *int
	OrderTotal *int
	FreeHours  *int
	FreeMins   *int
}

// FormatAvailability renders the horse availability message. next is nil
// when the horse has nothing left today.
func FormatAvailability(horse, finishedClass, finishedRing string, next *NextClass) string {
	horse = orUnknown(horse, constants.UnknownHorse)
	finishedClass = orUnknown(finishedClass, constants.UnknownClass)
	finishedRing = orUnknown(finishedRing, constants.UnknownRing)

	if next == nil {
		return fmt.Sprintf("🐴 %s - Done for Today!\n\n✅ Finished: %s\n📍 Ring: %s\n\n🎉 No more classes scheduled today",
			horse, finishedClass, finishedRing)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🐴 %s - Trip Completed\n\n✅ Finished: %s\n📍 Ring: %s\n\n", horse, finishedClass, finishedRing)
	fmt.Fprintf(&b, "⏭️ Next: %s\n⏰ Time: %s\n📍 Ring: %s\n",
		next.ClassName,
		orUnknown(next.Time, constants.NoValue),
		orUnknown(next.RingName, constants.NoValue),
	)
	if next.OrderOfGo != nil && next.OrderTotal != nil {
		fmt.Fprintf(&b, "#️⃣ Order: #%d of %d\n\n", *next.OrderOfGo, *next.OrderTotal)
	} else {
		b.WriteString("\n")
	}
	if next.FreeHours != nil && next.FreeMins != nil {
		fmt.Fprintf(&b, "⏳ Free time: %dh %dm", *next.FreeHours, *next.FreeMins)
	} else {
		b.WriteString("⏳ Free time: " + constants.NoValue)
	}
	return b.String()
}
