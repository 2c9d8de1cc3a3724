package sql

import (
	"context"
	"database/sql"
	"strings"

	core "sndeals/data/db"
	"sndeals/data/db/dialect"
)

// insertBuilder 单行插入；仓储一次只写一个实体
type insertBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table     string
	cols      []string
	values    []any
	returning []string
}

func (b *insertBuilder) Columns(cols ...string) IInsertBuilder {
	b.cols = cols
	return b
}

func (b *insertBuilder) Values(vals ...any) IInsertBuilder {
	b.values = vals
	return b
}

// Returning sqlite 下忽略，主键改由 LastInsertId 取回
func (b *insertBuilder) Returning(cols ...string) IInsertBuilder {
	if b.dialect.SupportsReturning() {
		b.returning = append(b.returning, cols...)
	}
	return b
}

func (b *insertBuilder) Build() (string, []any) {
	if len(b.cols) == 0 || len(b.cols) != len(b.values) {
		panic("sql: insert needs one value per column")
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO " + quoteAll(b.dialect, "table", b.table)[0])
	sb.WriteString(" (" + strings.Join(quoteAll(b.dialect, "column", b.cols...), ", ") + ")")
	sb.WriteString(" VALUES (" + strings.TrimSuffix(strings.Repeat("?, ", len(b.cols)), ", ") + ")")
	if len(b.returning) > 0 {
		sb.WriteString(" RETURNING " + strings.Join(quoteAll(b.dialect, "column", b.returning...), ", "))
	}
	return sb.String(), append([]any(nil), b.values...)
}

func (b *insertBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args := b.Build()
	return b.db.Exec(ctx, q, args...)
}

// QueryRow 执行带 RETURNING 的插入并返回结果行
func (b *insertBuilder) QueryRow(ctx context.Context) core.IRow {
	q, args := b.Build()
	return b.db.QueryRow(ctx, q, args...)
}
