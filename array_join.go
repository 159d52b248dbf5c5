package sendable

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type elementFormatter func(v Value, seen map[*Array]bool) (string, error)

// joinWith renders the elements of a separated by sep. An array that is
// already being rendered further up the call chain renders as "".
func (a *Array) joinWith(sep string, seen map[*Array]bool, format elementFormatter) (s string, err error) {
	if seen[a] {
		return "", nil
	}
	g, err := a.guard(ModRead)
	if err != nil {
		return "", err
	}
	defer g.release(&err)
	seen[a] = true
	defer delete(seen, a)

	var sb strings.Builder
	for i, v := range a.view() {
		if i > 0 {
			sb.WriteString(sep)
		}
		str, err := format(v, seen)
		if err != nil {
			return "", err
		}
		sb.WriteString(str)
	}
	return sb.String(), nil
}

func joinElement(v Value, seen map[*Array]bool) (string, error) {
	switch x := v.(type) {
	case nil, NullType:
		return "", nil
	case *Array:
		if x != nil {
			return x.joinWith(",", seen, joinElement)
		}
	}
	return toString(v), nil
}

// Join concatenates the string forms of the elements separated by
// separator, "," by default. Undefined and null render as "".
func (a *Array) Join(separator ...string) (string, error) {
	if a == nil {
		return "", newBindError("join")
	}
	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}
	return a.joinWith(sep, map[*Array]bool{}, joinElement)
}

// ToString is Join with the default separator.
func (a *Array) ToString() (string, error) {
	if a == nil {
		return "", newBindError("toString")
	}
	return a.joinWith(",", map[*Array]bool{}, joinElement)
}

// ToLocaleString renders the elements for the given BCP 47 locale,
// "en" by default. Numbers are printed with the locale's grouping and
// decimal separators.
func (a *Array) ToLocaleString(locales ...string) (string, error) {
	if a == nil {
		return "", newBindError("toLocaleString")
	}
	p := localePrinter(locales)
	var format elementFormatter
	format = func(v Value, seen map[*Array]bool) (string, error) {
		switch x := v.(type) {
		case nil, NullType:
			return "", nil
		case *Array:
			if x != nil {
				return x.joinWith(",", seen, format)
			}
		}
		if f, ok := toNumber(v); ok {
			return localeNumber(p, f), nil
		}
		return toString(v), nil
	}
	return a.joinWith(",", map[*Array]bool{}, format)
}

func localePrinter(locales []string) *message.Printer {
	tag := language.English
	if len(locales) > 0 {
		if t, err := language.Parse(locales[0]); err == nil {
			tag = t
		}
	}
	return message.NewPrinter(tag)
}

func localeNumber(p *message.Printer, f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatNumber(f)
	}
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}
