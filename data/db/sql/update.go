package sql

import (
	"context"
	"database/sql"
	"strings"

	core "sndeals/data/db"
	"sndeals/data/db/dialect"
)

type updateBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table  string
	cols   []string
	values []any
	where  whereClause
}

// Set 按调用顺序输出 SET 子句，空列名忽略
func (b *updateBuilder) Set(col string, val any) IUpdateBuilder {
	if col != "" {
		b.cols = append(b.cols, col)
		b.values = append(b.values, val)
	}
	return b
}

func (b *updateBuilder) Where(cond string, args ...any) IUpdateBuilder {
	b.where.add(cond, args)
	return b
}

func (b *updateBuilder) Build() (string, []any) {
	if len(b.cols) == 0 {
		panic("sql: update without columns")
	}
	quoted := quoteAll(b.dialect, "column", b.cols...)
	for i := range quoted {
		quoted[i] += " = ?"
	}

	var sb strings.Builder
	sb.WriteString("UPDATE " + quoteAll(b.dialect, "table", b.table)[0])
	sb.WriteString(" SET " + strings.Join(quoted, ", "))

	args := append(make([]any, 0, len(b.values)+len(b.where.args)), b.values...)
	return sb.String(), b.where.writeTo(&sb, args)
}

func (b *updateBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args := b.Build()
	return b.db.Exec(ctx, q, args...)
}
