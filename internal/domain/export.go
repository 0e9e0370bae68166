package domain

// ExportBundle is the ordered record sequence plus the column list derived
// from it for SQL generation.
type ExportBundle struct {
	Records []Record
	Columns []string
}

func NewExportBundle(records []Record) ExportBundle {
	return ExportBundle{
		Records: records,
		Columns: DeriveColumns(records),
	}
}

// DeriveColumns returns the union of record keys in first-seen order.
func DeriveColumns(records []Record) []string {
	seen := make(map[string]struct{})
	columns := make([]string, 0, len(LawyerFields))
	for _, record := range records {
		for _, key := range record.keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}
	return columns
}
