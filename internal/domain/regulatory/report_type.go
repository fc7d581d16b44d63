package regulatory

// Authority identifies the regulator consuming a report
type Authority string

const (
	AuthorityAMLO Authority = "AMLO"
	AuthorityBOT  Authority = "BOT"
)

// ReportType identifies a regulator report form
type ReportType string

const (
	ReportAMLO101 ReportType = "AMLO-1-01" // Currency Transaction Report
	ReportAMLO102 ReportType = "AMLO-1-02" // Asset Transaction Report
	ReportAMLO103 ReportType = "AMLO-1-03" // Suspicious Transaction Report
	ReportBOTBuy  ReportType = "BOT-BuyFX"
	ReportBOTSell ReportType = "BOT-SellFX"
	ReportBOTFCD  ReportType = "BOT-FCD"
)

// AllReportTypes returns every report type in evaluation order
func AllReportTypes() []ReportType {
	return []ReportType{
		ReportAMLO101,
		ReportAMLO102,
		ReportAMLO103,
		ReportBOTBuy,
		ReportBOTSell,
		ReportBOTFCD,
	}
}

// IsValid returns true for a known report type
func (rt ReportType) IsValid() bool {
	switch rt {
	case ReportAMLO101, ReportAMLO102, ReportAMLO103, ReportBOTBuy, ReportBOTSell, ReportBOTFCD:
		return true
	}
	return false
}

// Authority returns the regulator the report type belongs to
func (rt ReportType) Authority() Authority {
	switch rt {
	case ReportAMLO101, ReportAMLO102, ReportAMLO103:
		return AuthorityAMLO
	default:
		return AuthorityBOT
	}
}
