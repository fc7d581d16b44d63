package formmap

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	thaiDigits    = []string{"", "หนึ่ง", "สอง", "สาม", "สี่", "ห้า", "หก", "เจ็ด", "แปด", "เก้า"}
	thaiPositions = []string{"", "สิบ", "ร้อย", "พัน", "หมื่น", "แสน"}
)

// BahtText renders an amount as the Thai-script money narrative the AMLO
// forms carry next to the grand total, e.g. 5027315.00 becomes
// "ห้าล้านสองหมื่นเจ็ดพันสามร้อยสิบห้าบาทถ้วน". Negative amounts are
// prefixed with "ลบ". The amount is rounded to satang first.
func BahtText(amount decimal.Decimal) string {
	var b strings.Builder

	if amount.IsNegative() {
		b.WriteString("ลบ")
		amount = amount.Neg()
	}

	amount = amount.Round(2)
	baht := amount.Truncate(0)
	satang := amount.Sub(baht).Mul(decimal.NewFromInt(100)).Truncate(0).IntPart()

	if baht.IsZero() && satang == 0 {
		return "ศูนย์บาทถ้วน"
	}

	if !baht.IsZero() {
		b.WriteString(groupedThaiNumber(baht.String()))
		b.WriteString("บาท")
	}

	if satang == 0 {
		b.WriteString("ถ้วน")
	} else {
		b.WriteString(thaiNumberText(satangDigits(satang), false))
		b.WriteString("สตางค์")
	}

	return b.String()
}

func satangDigits(satang int64) string {
	if satang < 10 {
		return string(rune('0' + satang))
	}
	return string([]byte{byte('0' + satang/10), byte('0' + satang%10)})
}

// groupedThaiNumber reads a decimal digit string in groups of six, each group
// below the next separated by "ล้าน".
func groupedThaiNumber(digits string) string {
	var groups []string
	for len(digits) > 6 {
		groups = append([]string{digits[len(digits)-6:]}, groups...)
		digits = digits[:len(digits)-6]
	}
	groups = append([]string{digits}, groups...)

	var b strings.Builder
	for i, g := range groups {
		b.WriteString(thaiNumberText(g, i > 0))
		if i < len(groups)-1 {
			b.WriteString("ล้าน")
		}
	}
	return b.String()
}

// thaiNumberText renders up to six digits. hasHigherGroups switches the units
// digit 1 to "เอ็ด" even when the group itself is a bare 1.
func thaiNumberText(digits string, hasHigherGroups bool) string {
	var b strings.Builder
	n := len(digits)

	for i, c := range []byte(digits) {
		d := int(c - '0')
		pos := n - i - 1
		if d == 0 {
			continue
		}
		switch {
		case pos == 0 && d == 1 && (hasHigherGroups || hasNonZeroPrefix(digits[:i])):
			b.WriteString("เอ็ด")
		case pos == 1 && d == 1:
			b.WriteString("สิบ")
		case pos == 1 && d == 2:
			b.WriteString("ยี่สิบ")
		default:
			b.WriteString(thaiDigits[d])
			b.WriteString(thaiPositions[pos])
		}
	}
	return b.String()
}

func hasNonZeroPrefix(s string) bool {
	for _, c := range []byte(s) {
		if c != '0' {
			return true
		}
	}
	return false
}
