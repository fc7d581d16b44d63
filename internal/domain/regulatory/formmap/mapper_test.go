package formmap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

// amloCatalogue builds an AMLO-1-01 catalogue whose fillpos is "f_" plus the
// field name. sellTotalEmpty selects the inactive-total convention.
func amloCatalogue(t *testing.T, sellTotalEmpty string) *regulatory.Registry {
	t.Helper()

	text := func(name string, order int) regulatory.FieldSpec {
		pos := "f_" + name
		return regulatory.FieldSpec{
			ReportType: regulatory.ReportAMLO101, FieldName: name,
			DataType: regulatory.FieldString, FillOrder: order, FillPos: &pos,
		}
	}
	cb := func(name string, order int) regulatory.FieldSpec {
		spec := text(name, order)
		spec.DataType = regulatory.FieldCheckbox
		return spec
	}

	specs := []regulatory.FieldSpec{
		text(FieldReportNo, 1),
		text(FieldCustomerName, 2),
		text(FieldCustomerID, 3),
		text(FieldReportDay, 4),
		text(FieldReportMonth, 5),
		text(FieldReportYear, 6),
		text(FieldAmountThaiText, 7),
		cb(FieldDirectionBuyCB, 8),
		cb(FieldDirectionSellCB, 9),
		text(FieldBuyAmount, 10),
		text(FieldBuyTotal, 11),
		text(FieldBuyCurrencyDesc, 12),
		cb(FieldBuyBanknoteCB, 13),
		cb(FieldBuyTransferCB, 14),
		text(FieldBuyAccountNo, 15),
		text(FieldBuyCounterpartyAcc, 16),
		text(FieldSellAmount, 17),
		text(FieldSellCurrencyDesc, 19),
		cb(FieldSellBanknoteCB, 20),
		cb(FieldSellTransferCB, 21),
		text(FieldSellAccountNo, 22),
		text(FieldSellCounterpartyAcc, 23),
		text("occupation", 24),
		cb("is_resident", 25),
	}
	sellTotal := text(FieldSellTotal, 18)
	sellTotal.EmptyEncoding = sellTotalEmpty
	specs = append(specs, sellTotal)

	reg, err := regulatory.NewRegistry(specs)
	require.NoError(t, err)
	return reg
}

func buyCashInput(reg *regulatory.Registry) Input {
	return Input{
		Registry:      reg,
		ReportType:    regulatory.ReportAMLO101,
		Direction:     exchange.DirectionBuy,
		PaymentMethod: exchange.PaymentCash,
		CurrencyCode:  "USD",
		ForeignAmount: decimal.RequireFromString("155500"),
		LocalAmount:   decimal.RequireFromString("5027315.00"),
		CustomerID:    "1234567890123",
		CustomerName:  "Somchai Jaidee",
		ReportNo:      "001-001-68-000001USD",
		ReportDate:    time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC),
		Captured:      map[string]any{"occupation": "merchant", "is_resident": "yes"},
	}
}

func TestBuild_BuyCashMirror(t *testing.T) {
	reg := amloCatalogue(t, "")
	fm, err := Build(buyCashInput(reg))
	require.NoError(t, err)

	t.Run("left column is populated", func(t *testing.T) {
		assert.Equal(t, "5027315.00", fm["f_buy_amount"].Text)
		assert.Equal(t, "5027315.00", fm["f_buy_total"].Text)
		assert.Equal(t, "USD 155,500 (ธนบัตร)", fm["f_buy_currency_desc"].Text)
		assert.True(t, fm["f_buy_banknote_cb"].Checked)
		assert.False(t, fm["f_buy_transfer_cb"].Checked)
		assert.Equal(t, "", fm["f_buy_account_no"].Text)
	})

	t.Run("right column is wholly empty", func(t *testing.T) {
		for _, pos := range []string{"f_sell_amount", "f_sell_total", "f_sell_currency_desc", "f_sell_account_no", "f_sell_counterparty_account"} {
			v, ok := fm[pos]
			require.True(t, ok, pos)
			assert.Equal(t, "", v.Text, pos)
		}
		assert.False(t, fm["f_sell_banknote_cb"].Checked)
		assert.False(t, fm["f_sell_transfer_cb"].Checked)
	})

	t.Run("date parts are Buddhist era", func(t *testing.T) {
		assert.Equal(t, "11", fm["f_report_day"].Text)
		assert.Equal(t, "10", fm["f_report_month"].Text)
		assert.Equal(t, "2568", fm["f_report_year"].Text)
	})

	t.Run("header and narrative slots", func(t *testing.T) {
		assert.Equal(t, "001-001-68-000001USD", fm["f_report_no"].Text)
		assert.Equal(t, "Somchai Jaidee", fm["f_customer_name"].Text)
		assert.Equal(t, "ห้าล้านสองหมื่นเจ็ดพันสามร้อยสิบห้าบาทถ้วน", fm["f_amount_text_thai"].Text)
		assert.True(t, fm["f_direction_buy_cb"].Checked)
		assert.False(t, fm["f_direction_sell_cb"].Checked)
	})

	t.Run("captured supplementary fields land in their slots", func(t *testing.T) {
		assert.Equal(t, "merchant", fm["f_occupation"].Text)
		assert.True(t, fm["f_is_resident"].Checked)
	})
}

func TestBuild_InactiveTotalEncoding(t *testing.T) {
	// Some templates want the inactive total as "0.00" instead of blank; the
	// catalogue decides per field.
	reg := amloCatalogue(t, "0.00")
	fm, err := Build(buyCashInput(reg))
	require.NoError(t, err)
	assert.Equal(t, "0.00", fm["f_sell_total"].Text)
	assert.Equal(t, "", fm["f_sell_amount"].Text)
}

func TestBuild_SellMirrors(t *testing.T) {
	reg := amloCatalogue(t, "")
	in := buyCashInput(reg)
	in.Direction = exchange.DirectionSell

	fm, err := Build(in)
	require.NoError(t, err)

	assert.Equal(t, "5027315.00", fm["f_sell_amount"].Text)
	assert.Equal(t, "USD 155,500 (ธนบัตร)", fm["f_sell_currency_desc"].Text)
	assert.True(t, fm["f_sell_banknote_cb"].Checked)
	assert.True(t, fm["f_direction_sell_cb"].Checked)

	assert.Equal(t, "", fm["f_buy_amount"].Text)
	assert.Equal(t, "", fm["f_buy_total"].Text)
	assert.False(t, fm["f_buy_banknote_cb"].Checked)
	assert.False(t, fm["f_direction_buy_cb"].Checked)
}

func TestBuild_TransferPopulatesAccounts(t *testing.T) {
	reg := amloCatalogue(t, "")
	in := buyCashInput(reg)
	in.PaymentMethod = exchange.PaymentTransfer
	in.AccountNo = "014-2-55512-9"
	in.CounterpartyAccount = "777-1-00231-4"

	fm, err := Build(in)
	require.NoError(t, err)

	assert.False(t, fm["f_buy_banknote_cb"].Checked)
	assert.True(t, fm["f_buy_transfer_cb"].Checked)
	assert.Equal(t, "014-2-55512-9", fm["f_buy_account_no"].Text)
	assert.Equal(t, "777-1-00231-4", fm["f_buy_counterparty_account"].Text)
	assert.Equal(t, "USD 155,500 (โอน)", fm["f_buy_currency_desc"].Text)

	assert.Equal(t, "", fm["f_sell_account_no"].Text)
	assert.False(t, fm["f_sell_transfer_cb"].Checked)
}

func TestBuild_CheckboxFamilyExclusivity(t *testing.T) {
	reg := amloCatalogue(t, "")

	for _, dir := range []exchange.Direction{exchange.DirectionBuy, exchange.DirectionSell} {
		for _, pm := range []exchange.PaymentMethod{exchange.PaymentCash, exchange.PaymentTransfer} {
			in := buyCashInput(reg)
			in.Direction = dir
			in.PaymentMethod = pm
			fm, err := Build(in)
			require.NoError(t, err)

			payment := 0
			for _, pos := range []string{"f_buy_banknote_cb", "f_buy_transfer_cb", "f_sell_banknote_cb", "f_sell_transfer_cb"} {
				if fm[pos].Checked {
					payment++
				}
			}
			assert.Equal(t, 1, payment, "direction %s payment %s", dir, pm)

			direction := 0
			for _, pos := range []string{"f_direction_buy_cb", "f_direction_sell_cb"} {
				if fm[pos].Checked {
					direction++
				}
			}
			assert.Equal(t, 1, direction)
		}
	}
}

func TestBuild_CapturedCannotOverrideMirroredSlots(t *testing.T) {
	reg := amloCatalogue(t, "")
	in := buyCashInput(reg)
	in.Captured["sell_amount"] = "999.99"

	fm, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, "", fm["f_sell_amount"].Text)
}

func TestBuild_IsPure(t *testing.T) {
	reg := amloCatalogue(t, "")
	a, err := Build(buyCashInput(reg))
	require.NoError(t, err)
	b, err := Build(buyCashInput(reg))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_RejectsBadInput(t *testing.T) {
	reg := amloCatalogue(t, "")

	t.Run("non customer-facing direction", func(t *testing.T) {
		in := buyCashInput(reg)
		in.Direction = exchange.DirectionReversal
		_, err := Build(in)
		require.Error(t, err)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		in := buyCashInput(reg)
		in.PaymentMethod = "barter"
		_, err := Build(in)
		require.Error(t, err)
	})

	t.Run("nil registry", func(t *testing.T) {
		in := buyCashInput(reg)
		in.Registry = nil
		_, err := Build(in)
		require.Error(t, err)
	})
}

func TestBuddhistDateParts(t *testing.T) {
	parts := BuddhistDateParts(time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, DateParts{Day: "11", Month: "10", Year: "2568"}, parts)

	parts = BuddhistDateParts(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, DateParts{Day: "5", Month: "1", Year: "2569"}, parts)
}

func TestCurrencyDescription(t *testing.T) {
	assert.Equal(t, "USD 155,500 (ธนบัตร)",
		CurrencyDescription("USD", decimal.RequireFromString("155500"), exchange.PaymentCash))
	assert.Equal(t, "EUR 42,000.50 (โอน)",
		CurrencyDescription("EUR", decimal.RequireFromString("42000.5"), exchange.PaymentTransfer))
	assert.Equal(t, "JPY 1,000,000 (ธนบัตร)",
		CurrencyDescription("JPY", decimal.RequireFromString("1000000"), exchange.PaymentCash))
}
