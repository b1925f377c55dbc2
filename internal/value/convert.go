package value

import (
	"math"
	"strconv"
	"strings"
)

// ToStr converts v to a string value. Composite values, instances and
// undef do not convert.
func ToStr(v Value) (Value, bool) {
	switch v.kind {
	case KindString:
		return v, true
	case KindInt:
		return MakeString(strconv.FormatInt(v.i, 10)), true
	case KindFloat:
		return MakeString(formatFloat(v.f)), true
	case KindBool:
		if v.b {
			return MakeString("1"), true
		}
		return MakeString(""), true
	case KindNull:
		return MakeString(""), true
	}
	return Undef(), false
}

// ToInt converts v to an int value. A list converts to 1 when non-empty.
func ToInt(v Value) (Value, bool) {
	switch v.kind {
	case KindInt:
		return v, true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return MakeInt(0), true
		}
		return MakeInt(int64(v.f)), true
	case KindBool:
		return MakeInt(b2i(v.b)), true
	case KindString:
		return MakeInt(parseIntPrefix(v.s)), true
	case KindNull:
		return MakeInt(0), true
	case KindList, KindTuple:
		return MakeInt(b2i(len(v.items) > 0)), true
	}
	return Undef(), false
}

// ToFloat converts v to a float value. A list converts to 1 only when it
// holds more than one element.
func ToFloat(v Value) (Value, bool) {
	switch v.kind {
	case KindFloat:
		return v, true
	case KindInt:
		return MakeFloat(float64(v.i)), true
	case KindBool:
		return MakeFloat(float64(b2i(v.b))), true
	case KindString:
		return MakeFloat(parseFloatPrefix(v.s)), true
	case KindNull:
		return MakeFloat(0), true
	case KindTuple:
		return MakeFloat(float64(b2i(len(v.items) > 0))), true
	case KindList:
		return MakeFloat(float64(b2i(len(v.items) > 1))), true
	}
	return Undef(), false
}

// ToNum keeps ints and floats as they are and converts the rest to float.
func ToNum(v Value) (Value, bool) {
	if v.kind == KindInt || v.kind == KindFloat {
		return v, true
	}
	return ToFloat(v)
}

// ToBool converts v to a bool value. Lists and dicts are true when they
// hold elements.
func ToBool(v Value) (Value, bool) {
	switch v.kind {
	case KindBool:
		return v, true
	case KindInt:
		return MakeBool(v.i != 0), true
	case KindFloat:
		return MakeBool(v.f != 0), true
	case KindString:
		return MakeBool(v.s != "" && v.s != "0"), true
	case KindNull:
		return MakeBool(false), true
	case KindList, KindTuple:
		return MakeBool(len(v.items) > 0), true
	case KindDict:
		return MakeBool(len(v.dict) > 0), true
	}
	return Undef(), false
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'G', 14, 64)
}

// numericPrefix returns the leading numeric part of s, whitespace skipped.
// With float set it also accepts a fraction and an exponent.
func numericPrefix(s string, float bool) string {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if !float {
		if i == start {
			return ""
		}
		return s[:i]
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > i+1 || i > start {
			i = j
		}
	}
	if i == start {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func parseIntPrefix(s string) int64 {
	p := numericPrefix(s, false)
	if p == "" || p == "+" || p == "-" {
		return 0
	}
	n, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		if strings.HasPrefix(p, "-") {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return n
}

func parseFloatPrefix(s string) float64 {
	p := numericPrefix(s, true)
	if p == "" {
		return 0
	}
	// out-of-range input comes back as ±Inf
	f, _ := strconv.ParseFloat(p, 64)
	return f
}
