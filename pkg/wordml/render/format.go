package render

import (
	"strconv"
	"strings"

	wml "github.com/benjaminschreck/go-wordml/pkg/wordml/xml"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// counting systems: digits 0-9 and the units for tens, hundreds, thousands
type countingSystem struct {
	digits      [10]string
	units       [4]string
	omitLeadOne bool
}

var (
	chineseCounting = countingSystem{
		digits:      [10]string{"〇", "一", "二", "三", "四", "五", "六", "七", "八", "九"},
		units:       [4]string{"", "十", "百", "千"},
		omitLeadOne: true,
	}
	chineseCountingThousand = countingSystem{
		digits:      [10]string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九"},
		units:       [4]string{"", "十", "百", "千"},
		omitLeadOne: true,
	}
	legalTraditional = countingSystem{
		digits: [10]string{"零", "壹", "貳", "參", "肆", "伍", "陸", "柒", "捌", "玖"},
		units:  [4]string{"", "拾", "佰", "仟"},
	}
)

var heavenlyStems = []string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// FormatNumber renders n in the given number format. Bullet and none
// produce "". Unknown formats, and values a format cannot express, fall
// back to decimal.
func FormatNumber(n int, f wml.NumberFormat) string {
	switch f {
	case wml.NumFmtBullet, wml.NumFmtNone:
		return ""
	case wml.NumFmtDecimalZero:
		if n >= 0 && n < 10 {
			return "0" + strconv.Itoa(n)
		}
	case wml.NumFmtUpperRoman:
		if s, ok := roman(n); ok {
			return s
		}
	case wml.NumFmtLowerRoman:
		if s, ok := roman(n); ok {
			return strings.ToLower(s)
		}
	case wml.NumFmtUpperLetter:
		if s, ok := letters(n); ok {
			return s
		}
	case wml.NumFmtLowerLetter:
		if s, ok := letters(n); ok {
			return strings.ToLower(s)
		}
	case wml.NumFmtChineseCounting:
		if s, ok := chineseCounting.format(n); ok {
			return s
		}
	case wml.NumFmtChineseCountingThousand, wml.NumFmtTaiwaneseCounting:
		if s, ok := chineseCountingThousand.format(n); ok {
			return s
		}
	case wml.NumFmtIdeographLegalTraditional:
		if s, ok := legalTraditional.format(n); ok {
			return s
		}
	case wml.NumFmtIdeographTraditional:
		if n > 0 {
			return heavenlyStems[(n-1)%len(heavenlyStems)]
		}
	case wml.NumFmtIdeographEnclosedCircle:
		if n >= 1 && n <= 20 {
			return string(rune(0x2460 + n - 1))
		}
	}
	return strconv.Itoa(n)
}

func roman(n int) (string, bool) {
	if n <= 0 || n >= 4000 {
		return "", false
	}
	var sb strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String(), true
}

// letters follows Word: A..Z, then AA..ZZ, then AAA.. with the letter
// repeated.
func letters(n int) (string, bool) {
	if n <= 0 {
		return "", false
	}
	letter := byte('A' + (n-1)%26)
	count := (n-1)/26 + 1
	return strings.Repeat(string(letter), count), true
}

func (c countingSystem) format(n int) (string, bool) {
	if n < 0 || n > 9999 {
		return "", false
	}
	if n == 0 {
		return c.digits[0], true
	}

	var sb strings.Builder
	pendingZero := false
	for pos := 3; pos >= 0; pos-- {
		div := pow10(pos)
		d := (n / div) % 10
		if d == 0 {
			if sb.Len() > 0 {
				pendingZero = true
			}
			continue
		}
		if pendingZero {
			sb.WriteString(c.digits[0])
			pendingZero = false
		}
		if !(c.omitLeadOne && d == 1 && pos == 1 && n < 20) {
			sb.WriteString(c.digits[d])
		}
		sb.WriteString(c.units[pos])
	}
	return sb.String(), true
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
