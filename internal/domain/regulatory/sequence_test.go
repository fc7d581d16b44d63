package regulatory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAMLONumber(t *testing.T) {
	period := time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)

	t.Run("renders institution, branch, Buddhist year, sequence, currency", func(t *testing.T) {
		no := FormatAMLONumber("001", "001", period, 1, "USD")
		assert.Equal(t, "001-001-68-000001USD", no)
	})

	t.Run("sequence is zero-padded to six digits", func(t *testing.T) {
		assert.Equal(t, "001-002-68-000142EUR", FormatAMLONumber("001", "002", period, 142, "EUR"))
	})

	t.Run("Buddhist year rolls with the calendar", func(t *testing.T) {
		jan2026 := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "001-001-69-000001USD", FormatAMLONumber("001", "001", jan2026, 1, "USD"))
	})
}

func TestFormatBOTNumber(t *testing.T) {
	period := time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)
	no := FormatBOTNumber("MC042", period, 7, ReportBOTBuy)
	assert.Equal(t, "MC042-6810-000007-BOT-BuyFX", no)
}

func TestFormatReportNumber(t *testing.T) {
	period := time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)
	codes := RegulatorNumberCodes{
		AMLOInstitutionCode: "001",
		AMLOBranchCode:      "001",
		BOTSenderCode:       "MC042",
	}

	t.Run("AMLO types use the AMLO layout", func(t *testing.T) {
		no, err := FormatReportNumber(ReportAMLO101, codes, period, 1, "USD")
		require.NoError(t, err)
		assert.Equal(t, "001-001-68-000001USD", no)
	})

	t.Run("BOT types use the BOT layout", func(t *testing.T) {
		no, err := FormatReportNumber(ReportBOTSell, codes, period, 3, "USD")
		require.NoError(t, err)
		assert.Equal(t, "MC042-6810-000003-BOT-SellFX", no)
	})

	t.Run("missing AMLO codes are an error", func(t *testing.T) {
		_, err := FormatReportNumber(ReportAMLO101, RegulatorNumberCodes{BOTSenderCode: "MC042"}, period, 1, "USD")
		require.Error(t, err)
	})

	t.Run("missing BOT sender code is an error", func(t *testing.T) {
		_, err := FormatReportNumber(ReportBOTFCD, RegulatorNumberCodes{AMLOInstitutionCode: "001", AMLOBranchCode: "001"}, period, 1, "USD")
		require.Error(t, err)
	})
}

func TestScopeKeys(t *testing.T) {
	branchID := uuid.New()
	period := time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)

	t.Run("AMLO scope partitions by branch, currency, and month", func(t *testing.T) {
		key := ScopeKeyFor(ReportAMLO101, branchID, "USD", period)
		assert.Equal(t, AMLOScopeKey(branchID, "USD", period), key)
		assert.Contains(t, key, "USD")
		assert.Contains(t, key, "2025-10")
	})

	t.Run("BOT scope ignores currency", func(t *testing.T) {
		usd := ScopeKeyFor(ReportBOTBuy, branchID, "USD", period)
		eur := ScopeKeyFor(ReportBOTBuy, branchID, "EUR", period)
		assert.Equal(t, usd, eur)
	})

	t.Run("scopes differ across months", func(t *testing.T) {
		nov := period.AddDate(0, 1, 0)
		assert.NotEqual(t,
			ScopeKeyFor(ReportAMLO101, branchID, "USD", period),
			ScopeKeyFor(ReportAMLO101, branchID, "USD", nov))
	})
}
