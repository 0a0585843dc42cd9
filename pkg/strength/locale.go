// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
)

// unitSizes in seconds, largest first: century, decade, year, month, day, hour,
// minute, second.
var unitSizes = [...]float64{3153600000, 315360000, 31536000, 2592000, 86400, 3600, 60, 1}

type unitName struct {
	singular string
	plural   string
}

// Locale holds every user facing string of an evaluation.
type Locale struct {
	Tag language.Tag

	approx    string
	units     [len(unitSizes)]unitName
	instant   string
	millennia string

	weak        string
	strong      string
	veryStrong  string
	compromised string

	reason       string
	invalidInput string
}

// Spanish is the default locale.
var Spanish = &Locale{
	Tag:    language.Spanish,
	approx: "aproximadamente %s %s",
	units: [...]unitName{
		{"siglo", "siglos"},
		{"década", "décadas"},
		{"año", "años"},
		{"mes", "meses"},
		{"día", "días"},
		{"hora", "horas"},
		{"minuto", "minutos"},
		{"segundo", "segundos"},
	},
	instant:      "instantáneamente",
	millennia:    "milenios",
	weak:         "Débil",
	strong:       "Fuerte",
	veryStrong:   "Muy Fuerte",
	compromised:  "Muy Débil",
	reason:       "Contraseña extremadamente común y vulnerable. Debe ser cambiada.",
	invalidInput: "La propiedad 'password' es requerida y debe ser un string no vacío.",
}

// English is the secondary locale, picked by Accept-Language.
var English = &Locale{
	Tag:    language.English,
	approx: "about %s %s",
	units: [...]unitName{
		{"century", "centuries"},
		{"decade", "decades"},
		{"year", "years"},
		{"month", "months"},
		{"day", "days"},
		{"hour", "hours"},
		{"minute", "minutes"},
		{"second", "seconds"},
	},
	instant:      "instantly",
	millennia:    "millennia",
	weak:         "Weak",
	strong:       "Strong",
	veryStrong:   "Very Strong",
	compromised:  "Very Weak",
	reason:       "Extremely common and vulnerable password. It must be changed.",
	invalidInput: "The 'password' property is required and must be a non-empty string.",
}

// Locales lists the supported locales, default first.
var Locales = []*Locale{Spanish, English}

var matcher = language.NewMatcher([]language.Tag{Spanish.Tag, English.Tag})

// LookupLocale finds a supported locale by BCP 47 name, e.g. "es" or "en-US".
func LookupLocale(name string) (*Locale, bool) {
	tag, err := language.Parse(name)
	if err != nil {
		return nil, false
	}

	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return nil, false
	}

	return Locales[i], true
}

// Negotiate picks the best supported locale for an Accept-Language header value.
func Negotiate(acceptLanguage string, fallback *Locale) *Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, i, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}

	return Locales[i]
}

// Instant is the marker used for anything cracked in under a second.
func (l *Locale) Instant() string {
	return l.instant
}

// InvalidInput is the message returned when a request carries no usable password.
func (l *Locale) InvalidInput() string {
	return l.invalidInput
}

// FormatTime renders seconds with the single largest unit that fits, floored.
// Non-finite seconds (entropy above about 1024 bits overflows 2^E) have no countable
// unit and are rendered as the millennia marker instead of an infinite century count.
func (l *Locale) FormatTime(seconds float64) string {
	if seconds < 1 {
		return l.instant
	}

	for i, size := range unitSizes {
		value := seconds / size
		if value >= 1 {
			count := math.Floor(value)
			if math.IsInf(count, 0) {
				break
			}

			name := l.units[i].singular
			if count > 1 {
				name = l.units[i].plural
			}

			return fmt.Sprintf(l.approx, formatCount(count), name)
		}
	}

	// Only non-finite durations get here.
	return l.millennia
}

// formatCount prints integers the way the existing consumers expect: the shortest
// round-trip digits, padded with zeros below 1e21 and in exponent form above.
func formatCount(v float64) string {
	if v < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Label renders the strength of a result.
func (l *Locale) Label(r Result) string {
	if r.Compromised {
		return l.compromised
	}

	switch r.Category {
	case Strong:
		return l.strong
	case VeryStrong:
		return l.veryStrong
	default:
		return l.weak
	}
}

// Render builds the wire response for a result. The password is always masked.
func (l *Locale) Render(r Result) Response {
	if r.Compromised {
		return Response{
			Password:  MaskedPassword,
			IsValid:   false,
			Reason:    l.reason,
			Entropy:   0,
			Strength:  l.compromised,
			CrackTime: l.instant,
		}
	}

	return Response{
		Password:  MaskedPassword,
		IsValid:   true,
		Entropy:   r.Entropy,
		Strength:  l.Label(r),
		CrackTime: l.FormatTime(r.Seconds),
	}
}
