// Package format renders amounts and dates the way operators read them.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotRequired is shown instead of a zero charge.
const NotRequired = "Не требуется"

const (
	isoDate     = "2006-01-02"
	displayDate = "02.01.2006"
	displayTime = "15:04:05"
)

var printer = message.NewPrinter(language.Russian)

// Money formats an amount in rubles, e.g. "1 500,5 ₽".
func Money(amount float64) string {
	return printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2))) + " ₽"
}

// Charge is Money for positive amounts and NotRequired otherwise.
func Charge(amount float64) string {
	if amount <= 0 {
		return NotRequired
	}
	return Money(amount)
}

// Date turns a YYYY-MM-DD date into DD.MM.YYYY. Anything unparseable is
// returned unchanged.
func Date(raw string) string {
	d, err := time.Parse(isoDate, raw)
	if err != nil {
		return raw
	}
	return d.Format(displayDate)
}

// Day formats the calendar day of t in DD.MM.YYYY.
func Day(t time.Time) string {
	return t.Format(displayDate)
}

// DateTime formats t as "DD.MM.YYYY HH:MM:SS" in local time.
func DateTime(t time.Time) string {
	return t.Local().Format(displayDate + " " + displayTime)
}
