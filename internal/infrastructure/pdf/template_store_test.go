package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormFieldNames(t *testing.T) {
	export := []byte(`{
		"forms": [{
			"textfield": [
				{"name": "f_report_no", "value": ""},
				{"name": "f_total_amount", "value": ""}
			],
			"datefield": [{"name": "f_txn_date"}],
			"checkbox": [{"name": "f_banknote_cb", "value": false}],
			"radiobuttongroup": [{"name": "f_direction"}]
		}]
	}`)

	names, err := parseFormFieldNames(export)
	require.NoError(t, err)

	assert.Contains(t, names, "f_report_no")
	assert.Contains(t, names, "f_total_amount")
	assert.Contains(t, names, "f_txn_date")
	assert.Contains(t, names, "f_banknote_cb")
	assert.Contains(t, names, "f_direction")
	assert.NotContains(t, names, "f_total")
}

func TestParseFormFieldNames_RejectsMalformedExport(t *testing.T) {
	_, err := parseFormFieldNames([]byte(`{"forms": [`))
	require.Error(t, err)
}

func TestMissingPositions(t *testing.T) {
	names := map[string]struct{}{
		"f_total_amount": {},
		"f_report_no":    {},
	}

	t.Run("all positions present", func(t *testing.T) {
		assert.Empty(t, missingPositions([]string{"f_report_no", "f_total_amount"}, names))
	})

	t.Run("prefix of a field name is still missing", func(t *testing.T) {
		// f_total must not pass just because f_total_amount exists
		missing := missingPositions([]string{"f_total", "f_report_no"}, names)
		assert.Equal(t, []string{"f_total"}, missing)
	})

	t.Run("unknown position is missing", func(t *testing.T) {
		missing := missingPositions([]string{"f_counterparty"}, names)
		assert.Equal(t, []string{"f_counterparty"}, missing)
	})
}
