package main

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
)

// ---------------------------------------------------------------------------
// School Calendar
// ---------------------------------------------------------------------------

// provinceHolidays maps German state abbreviations to their holiday slices.
var provinceHolidays = map[string][]*cal.Holiday{
	"BW": de.HolidaysBW, // Baden-Württemberg
	"BY": de.HolidaysBY, // Bayern
	"BE": de.HolidaysBE, // Berlin
	"BB": de.HolidaysBB, // Brandenburg
	"HB": de.HolidaysHB, // Bremen
	"HH": de.HolidaysHH, // Hamburg
	"HE": de.HolidaysHE, // Hessen
	"MV": de.HolidaysMV, // Mecklenburg-Vorpommern
	"NI": de.HolidaysNI, // Niedersachsen
	"NW": de.HolidaysNW, // Nordrhein-Westfalen
	"RP": de.HolidaysRP, // Rheinland-Pfalz
	"SL": de.HolidaysSL, // Saarland
	"SN": de.HolidaysSN, // Sachsen
	"ST": de.HolidaysST, // Sachsen-Anhalt
	"SH": de.HolidaysSH, // Schleswig-Holstein
	"TH": de.HolidaysTH, // Thüringen
}

// maxLookahead bounds the search for the next school day.
const maxLookahead = 366

// newSchoolCalendar creates a calendar with the public holidays of the given
// province. Unknown provinces fall back to Baden-Württemberg.
func newSchoolCalendar(province string) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = "mathsheets"
	c.Description = "School days for worksheet dates"

	holidays, ok := provinceHolidays[province]
	if !ok {
		holidays = de.HolidaysBW
	}
	c.AddHoliday(holidays...)
	return c
}

// isSchoolDay excludes weekends, holidays and, if christmasBreak is set,
// December 24th and 27th-31st.
func isSchoolDay(c *cal.BusinessCalendar, date time.Time, christmasBreak bool) bool {
	if !c.IsWorkday(date) {
		return false
	}

	if christmasBreak && date.Month() == time.December {
		day := date.Day()
		if day == 24 || (day >= 27 && day <= 31) {
			return false
		}
	}

	return true
}

// nextSchoolDay returns the first school day on or after from.
func nextSchoolDay(c *cal.BusinessCalendar, from time.Time, christmasBreak bool) time.Time {
	date := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxLookahead; i++ {
		if isSchoolDay(c, date, christmasBreak) {
			return date
		}
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// worksheetDate returns the formatted date stamp for the header, or "" when
// no province is configured.
func worksheetDate(cfg CalendarConfig, from time.Time) string {
	if cfg.Province == "" {
		return ""
	}
	c := newSchoolCalendar(cfg.Province)
	return formatDate(nextSchoolDay(c, from, cfg.ChristmasBreakEnabled()))
}
