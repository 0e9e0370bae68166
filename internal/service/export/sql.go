package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/lw-directory-scraper/internal/domain"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

// SQLSink writes a CREATE TABLE statement followed by one INSERT per record.
type SQLSink struct {
	Path       string
	Table      string
	ColumnSize int
}

func (s SQLSink) Name() string {
	return "sql"
}

func (s SQLSink) Write(_ context.Context, bundle domain.ExportBundle) error {
	script := GenerateSQL(s.Table, s.ColumnSize, bundle)
	if err := writeFileAtomic(s.Path, []byte(script)); err != nil {
		return errors.NewExportError("failed to write sql", s.Path, err)
	}
	return nil
}

// GenerateSQL renders the table definition and inserts for bundle. Every
// column is a bounded VARCHAR. A bundle without records still defines the
// table with the lawyer record fields. Values are single quoted with embedded quotes
// doubled; null and missing values become NULL. This is text generation, not
// parameter binding: quoting is the only escaping applied.
func GenerateSQL(table string, columnSize int, bundle domain.ExportBundle) string {
	var b strings.Builder

	columns := bundle.Columns
	if len(columns) == 0 {
		columns = domain.LawyerFields
	}

	definitions := make([]string, 0, len(columns))
	for _, column := range columns {
		definitions = append(definitions, fmt.Sprintf("%s VARCHAR(%d)", column, columnSize))
	}
	fmt.Fprintf(&b, "CREATE TABLE %s (\n  %s\n);\n\n", table, strings.Join(definitions, ",\n  "))

	for _, record := range bundle.Records {
		values := make([]string, 0, len(bundle.Columns))
		for _, column := range bundle.Columns {
			values = append(values, SQLLiteral(record, column))
		}
		fmt.Fprintf(&b, "\nINSERT INTO %s VALUES(%s);", table, strings.Join(values, ","))
	}
	b.WriteString("\n")

	return b.String()
}

// SQLLiteral renders the value of column as a SQL literal.
func SQLLiteral(record domain.Record, column string) string {
	value, ok := record.Value(column)
	if !ok {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
