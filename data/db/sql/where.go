package sql

import (
	"strings"

	"sndeals/data/db/dialect"
)

// whereClause 以 AND 连接的条件片段及其参数，三类构建器共用
type whereClause struct {
	exprs []string
	args  []any
}

func (w *whereClause) add(cond string, args []any) {
	if cond == "" {
		return
	}
	w.exprs = append(w.exprs, cond)
	w.args = append(w.args, args...)
}

// writeTo 追加 " WHERE ..."，返回追加参数后的 args 副本
func (w *whereClause) writeTo(sb *strings.Builder, args []any) []any {
	if len(w.exprs) == 0 {
		return args
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(w.exprs, " AND "))
	return append(args, w.args...)
}

// quoteAll 校验并按方言加引号，遇到不安全的标识符直接 panic：标识符只来自代码里的元数据
func quoteAll(d dialect.Dialect, what string, names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if !dialect.IsSafeIdentifier(n) {
			panic("sql: unsafe " + what + " " + n)
		}
		out[i] = d.QuoteIdentifier(n)
	}
	return out
}
