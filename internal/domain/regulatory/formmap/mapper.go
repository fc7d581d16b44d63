// Package formmap projects reservation, transaction, and branch facts into
// the {fillpos: value} pairs a regulator PDF template expects. All of the
// form-layout semantics live here: direction mirroring, checkbox families,
// Buddhist dates, and Thai money narratives. The mapping is pure; the same
// inputs and catalogue always produce the same field map.
package formmap

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/shared"
)

// Value is one slot of the field map: a text run for text fields, a checked
// state for checkbox widgets.
type Value struct {
	Text     string
	Checked  bool
	Checkbox bool
}

// TextValue wraps a string for a text field
func TextValue(s string) Value { return Value{Text: s} }

// CheckValue wraps a checkbox state
func CheckValue(on bool) Value { return Value{Checkbox: true, Checked: on} }

// FieldMap maps fillpos identifiers to the values the filler writes
type FieldMap map[string]Value

// Well-known catalogue field names the mapper drives directly. Fields the
// catalogue does not declare (nil fillpos or absent row) are skipped, so a
// template needing fewer slots still maps cleanly.
const (
	FieldReportNo       = "report_no"
	FieldCustomerName   = "customer_name"
	FieldCustomerID     = "customer_id"
	FieldReportDay      = "report_day"
	FieldReportMonth    = "report_month"
	FieldReportYear     = "report_year"
	FieldAmountThaiText = "amount_text_thai"

	FieldDirectionBuyCB  = "direction_buy_cb"
	FieldDirectionSellCB = "direction_sell_cb"

	FieldBuyAmount          = "buy_amount"
	FieldBuyTotal           = "buy_total"
	FieldBuyCurrencyDesc    = "buy_currency_desc"
	FieldBuyBanknoteCB      = "buy_banknote_cb"
	FieldBuyTransferCB      = "buy_transfer_cb"
	FieldBuyAccountNo       = "buy_account_no"
	FieldBuyCounterpartyAcc = "buy_counterparty_account"

	FieldSellAmount          = "sell_amount"
	FieldSellTotal           = "sell_total"
	FieldSellCurrencyDesc    = "sell_currency_desc"
	FieldSellBanknoteCB      = "sell_banknote_cb"
	FieldSellTransferCB      = "sell_transfer_cb"
	FieldSellAccountNo       = "sell_account_no"
	FieldSellCounterpartyAcc = "sell_counterparty_account"
)

// leftColumn and rightColumn are the direction-mirrored halves of the AMLO
// form. Buy populates the left half, sell the right; the opposite half must
// come out wholly empty.
var (
	leftColumn = []string{
		FieldBuyAmount, FieldBuyTotal, FieldBuyCurrencyDesc,
		FieldBuyBanknoteCB, FieldBuyTransferCB,
		FieldBuyAccountNo, FieldBuyCounterpartyAcc,
	}
	rightColumn = []string{
		FieldSellAmount, FieldSellTotal, FieldSellCurrencyDesc,
		FieldSellBanknoteCB, FieldSellTransferCB,
		FieldSellAccountNo, FieldSellCounterpartyAcc,
	}
)

// checkboxFamilies are the mutually exclusive checkbox groups of the form.
// Exactly one member of each declared family is set in every emitted map.
var checkboxFamilies = map[string][]string{
	"direction": {FieldDirectionBuyCB, FieldDirectionSellCB},
	"payment_method": {
		FieldBuyBanknoteCB, FieldBuyTransferCB,
		FieldSellBanknoteCB, FieldSellTransferCB,
	},
}

// columnSlots names the per-column fields for a direction
type columnSlots struct {
	amount, total, currencyDesc    string
	banknoteCB, transferCB         string
	accountNo, counterpartyAccount string
}

var buySlots = columnSlots{
	amount: FieldBuyAmount, total: FieldBuyTotal, currencyDesc: FieldBuyCurrencyDesc,
	banknoteCB: FieldBuyBanknoteCB, transferCB: FieldBuyTransferCB,
	accountNo: FieldBuyAccountNo, counterpartyAccount: FieldBuyCounterpartyAcc,
}

var sellSlots = columnSlots{
	amount: FieldSellAmount, total: FieldSellTotal, currencyDesc: FieldSellCurrencyDesc,
	banknoteCB: FieldSellBanknoteCB, transferCB: FieldSellTransferCB,
	accountNo: FieldSellAccountNo, counterpartyAccount: FieldSellCounterpartyAcc,
}

// Input carries everything the mapper projects into a field map
type Input struct {
	Registry      *regulatory.Registry
	ReportType    regulatory.ReportType
	Direction     exchange.Direction
	PaymentMethod exchange.PaymentMethod
	CurrencyCode  string
	// ForeignAmount is the foreign-currency volume, used in the narrative
	// currency description. LocalAmount is the THB volume written into the
	// amount and total slots.
	ForeignAmount decimal.Decimal
	LocalAmount   decimal.Decimal
	CustomerID    string
	CustomerName  string
	ReportNo      string
	ReportDate    time.Time
	// AccountNo and CounterpartyAccount are populated for transfers only
	AccountNo           string
	CounterpartyAccount string
	// Captured holds supplementary catalogue values keyed by field name
	Captured map[string]any
}

// Build produces the field map for a report emission
func Build(in Input) (FieldMap, error) {
	if in.Registry == nil {
		return nil, shared.NewDomainError("INTERNAL_INVARIANT", "Field registry is required")
	}
	if !in.Direction.IsCustomerFacing() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Cannot map a %s transaction onto a report form", in.Direction))
	}
	if !in.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", in.PaymentMethod))
	}

	out := make(FieldMap)
	put := func(name string, v Value) {
		spec := in.Registry.Lookup(in.ReportType, name)
		if spec == nil || spec.FillPos == nil || *spec.FillPos == "" {
			return
		}
		out[*spec.FillPos] = v
	}

	// Header slots shared by both directions
	put(FieldReportNo, TextValue(in.ReportNo))
	put(FieldCustomerName, TextValue(in.CustomerName))
	put(FieldCustomerID, TextValue(in.CustomerID))

	parts := BuddhistDateParts(in.ReportDate)
	put(FieldReportDay, TextValue(parts.Day))
	put(FieldReportMonth, TextValue(parts.Month))
	put(FieldReportYear, TextValue(parts.Year))

	put(FieldAmountThaiText, TextValue(BahtText(in.LocalAmount)))

	active, inactive := buySlots, sellSlots
	if in.Direction == exchange.DirectionSell {
		active, inactive = sellSlots, buySlots
	}
	put(FieldDirectionBuyCB, CheckValue(in.Direction == exchange.DirectionBuy))
	put(FieldDirectionSellCB, CheckValue(in.Direction == exchange.DirectionSell))

	// Active column
	amountText := in.LocalAmount.StringFixed(2)
	put(active.amount, TextValue(amountText))
	put(active.total, TextValue(amountText))
	put(active.currencyDesc, TextValue(CurrencyDescription(in.CurrencyCode, in.ForeignAmount, in.PaymentMethod)))

	cash := in.PaymentMethod == exchange.PaymentCash
	put(active.banknoteCB, CheckValue(cash))
	put(active.transferCB, CheckValue(!cash))
	if cash {
		put(active.accountNo, TextValue(""))
		put(active.counterpartyAccount, TextValue(""))
	} else {
		put(active.accountNo, TextValue(in.AccountNo))
		put(active.counterpartyAccount, TextValue(in.CounterpartyAccount))
	}

	// Inactive column: text slots carry their catalogue empty encoding,
	// checkboxes stay off. A stray zero here reads as a line item to some
	// regulator reviewers, hence the per-field encoding.
	for _, name := range []string{inactive.amount, inactive.total, inactive.currencyDesc, inactive.accountNo, inactive.counterpartyAccount} {
		if spec := in.Registry.Lookup(in.ReportType, name); spec != nil {
			put(name, TextValue(spec.EmptyEncoding))
		}
	}
	put(inactive.banknoteCB, CheckValue(false))
	put(inactive.transferCB, CheckValue(false))

	// Supplementary captured values fill whatever catalogue slots remain
	for _, spec := range in.Registry.ListFields(in.ReportType) {
		if spec.FillPos == nil || *spec.FillPos == "" {
			continue
		}
		if _, taken := out[*spec.FillPos]; taken {
			continue
		}
		raw, present := in.Captured[spec.FieldName]
		if !present || raw == nil {
			continue
		}
		if spec.DataType == regulatory.FieldCheckbox {
			out[*spec.FillPos] = CheckValue(regulatory.CheckboxTruthy(raw))
		} else {
			out[*spec.FillPos] = TextValue(fmt.Sprintf("%v", raw))
		}
	}

	if err := verifyMirror(in, out, inactive); err != nil {
		return nil, err
	}
	if err := verifyFamilies(in, out); err != nil {
		return nil, err
	}

	return out, nil
}

// verifyMirror asserts the inactive column is wholly empty
func verifyMirror(in Input, out FieldMap, inactive columnSlots) error {
	for _, name := range []string{inactive.amount, inactive.total, inactive.currencyDesc, inactive.accountNo, inactive.counterpartyAccount} {
		spec := in.Registry.Lookup(in.ReportType, name)
		if spec == nil || spec.FillPos == nil || *spec.FillPos == "" {
			continue
		}
		v, ok := out[*spec.FillPos]
		if !ok {
			continue
		}
		if v.Checkbox && v.Checked {
			return shared.NewDomainError("INTERNAL_INVARIANT", fmt.Sprintf("Inactive-column checkbox %s is set", name))
		}
		if !v.Checkbox && v.Text != spec.EmptyEncoding {
			return shared.NewDomainError("INTERNAL_INVARIANT", fmt.Sprintf("Inactive-column field %s carries %q", name, v.Text))
		}
	}
	for _, name := range []string{inactive.banknoteCB, inactive.transferCB} {
		spec := in.Registry.Lookup(in.ReportType, name)
		if spec == nil || spec.FillPos == nil {
			continue
		}
		if v, ok := out[*spec.FillPos]; ok && v.Checked {
			return shared.NewDomainError("INTERNAL_INVARIANT", fmt.Sprintf("Inactive-column checkbox %s is set", name))
		}
	}
	return nil
}

// verifyFamilies asserts exactly one box per declared checkbox family
func verifyFamilies(in Input, out FieldMap) error {
	for family, members := range checkboxFamilies {
		resolved, checked := 0, 0
		for _, name := range members {
			spec := in.Registry.Lookup(in.ReportType, name)
			if spec == nil || spec.FillPos == nil || *spec.FillPos == "" {
				continue
			}
			v, ok := out[*spec.FillPos]
			if !ok {
				continue
			}
			resolved++
			if v.Checked {
				checked++
			}
		}
		if resolved > 0 && checked != 1 {
			return shared.NewDomainError("INTERNAL_INVARIANT", fmt.Sprintf("Checkbox family %s has %d boxes set, want exactly one", family, checked))
		}
	}
	return nil
}
