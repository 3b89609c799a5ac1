package c2m2

// sampleRows are the demonstration practices shipped in the template.
var sampleRows = []Row{
	{
		StringCell("Asset, Change, and Configuration Management (ASSET)"),
		StringCell("ASSET-1"),
		IntCell(1),
		StringCell("Manage IT and OT Asset Inventory"),
		StringCell("IT and OT assets that are important to the delivery of the function are inventoried, at least in an ad hoc manner"),
		StringCell("Asset inventory spreadsheet; CMDB export"),
		StringCell("ID.AM-1, ID.AM-2"),
		StringCell("ID.AM-01, ID.AM-02"),
		StringCell("Include hardware, software, and firmware assets that support the function."),
	},
	{
		StringCell("Threat and Vulnerability Management (THREAT)"),
		StringCell("THREAT-2"),
		IntCell(2),
		StringCell("Reduce Cybersecurity Vulnerabilities"),
		StringCell("Firewall policy and patch status are reviewed to reduce exposure to identified vulnerabilities"),
		StringCell("Vulnerability scan reports; firewall rule review records"),
		StringCell("ID.RA-1, PR.IP-12"),
		StringCell("ID.RA-01, ID.RA-08"),
		StringCell("Prioritize remediation by the threat profile of the function."),
	},
}

// SampleTable returns the onboarding template as a Table: every known
// column, two demonstration rows.
func SampleTable() *Table {
	return MustTable(Columns(), sampleRows)
}

// SampleTemplate returns the onboarding workbook. It depends on no
// uploaded data.
func SampleTemplate() ([]byte, error) {
	return Serialize(SampleTable())
}
