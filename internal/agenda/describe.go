package agenda

import (
	"fmt"
	"time"
)

// Locale selects the language for engine produced labels. Spanish is the
// product language; unknown locales fall back to it.
type Locale string

// LocaleES is the default (and currently only) label set.
const LocaleES Locale = "es"

type labelTable struct {
	allDay      string
	noRepeat    string
	daily       string
	weekdays    string
	weeklyFmt   string
	monthlyFmt  string
	yearlyFmt   string
	everyFmt    string
	weekdayName [7]string
	monthName   [12]string
	ordinal     [5]string
	unitSing    [4]string
	unitPlural  [4]string
}

var labels = map[Locale]labelTable{
	LocaleES: {
		allDay:     "Todo el día",
		noRepeat:   "No se repite",
		daily:      "Todos los días",
		weekdays:   "Todos los días hábiles",
		weeklyFmt:  "Cada semana el %s",
		monthlyFmt: "Todos los meses el %s %s",
		yearlyFmt:  "Anualmente el %d de %s",
		everyFmt:   "Cada %d %s",
		weekdayName: [7]string{
			"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
		},
		monthName: [12]string{
			"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
		},
		ordinal:    [5]string{"primer", "segundo", "tercer", "cuarto", "quinto"},
		unitSing:   [4]string{"día", "semana", "mes", "año"},
		unitPlural: [4]string{"días", "semanas", "meses", "años"},
	},
}

func lookup(locale Locale) labelTable {
	if table, ok := labels[locale]; ok {
		return table
	}
	return labels[LocaleES]
}

// Describe renders a human readable recurrence label for the given rule and
// anchor date. Pure function; the anchor supplies the weekday, the
// day-of-month ordinal and the month used by the named frequencies.
//
// Monthly deliberately means "nth weekday of the month" (the weekday of the
// anchor, at its 0-based week index within the month), not "same numeric
// day". Calendar cards have always communicated that meaning.
func Describe(rule Rule, anchor time.Time, locale Locale) string {
	table := lookup(locale)

	switch rule.Kind {
	case RuleNamed:
		switch rule.Frequency {
		case FreqDaily:
			return table.daily
		case FreqWeekdays:
			return table.weekdays
		case FreqWeekly:
			return fmt.Sprintf(table.weeklyFmt, table.weekdayName[anchor.Weekday()])
		case FreqMonthly:
			weekIndex := (anchor.Day() - 1) / 7
			return fmt.Sprintf(table.monthlyFmt, table.ordinal[weekIndex], table.weekdayName[anchor.Weekday()])
		case FreqYearly:
			return fmt.Sprintf(table.yearlyFmt, anchor.Day(), table.monthName[anchor.Month()-1])
		}
		return table.noRepeat
	case RuleCustom:
		if rule.Custom == nil {
			return table.noRepeat
		}
		unit := table.unitPlural[rule.Custom.Unit]
		if rule.Custom.Interval == 1 {
			unit = table.unitSing[rule.Custom.Unit]
		}
		return fmt.Sprintf(table.everyFmt, rule.Custom.Interval, unit)
	default:
		return table.noRepeat
	}
}
