package formmap

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
)

var groupingPrinter = message.NewPrinter(language.English)

// CurrencyDescription renders the narrative slot next to the active column,
// e.g. "USD 155,500 (ธนบัตร)" for a cash deal or "EUR 42,000.50 (โอน)" for a
// transfer. The foreign amount is thousands-grouped; whole amounts drop the
// fraction.
func CurrencyDescription(code string, foreignAmount decimal.Decimal, method exchange.PaymentMethod) string {
	settle := "ธนบัตร"
	if method == exchange.PaymentTransfer {
		settle = "โอน"
	}
	return fmt.Sprintf("%s %s (%s)", code, groupedAmount(foreignAmount), settle)
}

func groupedAmount(amount decimal.Decimal) string {
	if amount.Equal(amount.Truncate(0)) {
		return groupingPrinter.Sprintf("%v", number.Decimal(amount.IntPart()))
	}
	f, _ := amount.Round(2).Float64()
	return groupingPrinter.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
