package query

import (
	"fmt"
	"strconv"
	"strings"

	"sndeals/errors"
)

// Join 父表关联，只产生 INNER JOIN
type Join struct {
	Table string
	On    string
}

func (j Join) String() string {
	return "INNER JOIN " + j.Table + " ON " + j.On
}

// Predicate 表限定列上的等值约束，值只作为绑定参数出现
type Predicate struct {
	Column string
	Value  any
}

// Bounds 行窗口
type Bounds struct {
	Limit  int
	Offset int
}

// Descriptor 编译结果：基表、关联、谓词、排序与可选窗口
type Descriptor struct {
	Entity string
	Table  string
	Joins  []Join
	// Seeded 为 true 时谓词以恒真条件 1 = 1 开头
	Seeded     bool
	Predicates []Predicate
	OrderBy    string
	Bounds     *Bounds
}

const alwaysTrue = "1 = 1"

// Where 返回使用 ? 占位符的条件表达式及对应参数
func (d Descriptor) Where() (string, []any) {
	parts := make([]string, 0, len(d.Predicates)+1)
	args := make([]any, 0, len(d.Predicates))
	if d.Seeded {
		parts = append(parts, alwaysTrue)
	}
	for _, p := range d.Predicates {
		parts = append(parts, p.Column+" = ?")
		args = append(args, p.Value)
	}
	return strings.Join(parts, " AND "), args
}

// Unbounded 去掉窗口，用于与分页查询同源的计数
func (d Descriptor) Unbounded() Descriptor {
	d.Bounds = nil
	return d
}

// String 调试形式，参数以 :v1、:v2 标注，不包含参数值
func (d Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(d.Table)
	sb.WriteString(".* FROM ")
	sb.WriteString(d.Table)
	for _, j := range d.Joins {
		sb.WriteByte(' ')
		sb.WriteString(j.String())
	}
	parts := make([]string, 0, len(d.Predicates)+1)
	if d.Seeded {
		parts = append(parts, alwaysTrue)
	}
	for i, p := range d.Predicates {
		parts = append(parts, p.Column+" = :v"+strconv.Itoa(i+1))
	}
	if len(parts) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(parts, " AND "))
	}
	if d.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(d.OrderBy)
		sb.WriteString(" ASC")
	}
	if d.Bounds != nil {
		fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", d.Bounds.Limit, d.Bounds.Offset)
	}
	return sb.String()
}

// Compile 把条件与可选窗口编译为查询描述，纯函数。
//
// 父关系槽位设置时生成 INNER JOIN，且外键约束作为第一个谓词；否则谓词以
// 1 = 1 开头。其余槽位按 schema 字段顺序追加，与 Conditions() 的返回顺序无关。
// 结果总是按主键升序。
func Compile(schema *Schema, criteria Criteria, window *PageWindow) (Descriptor, error) {
	d := Descriptor{
		Entity:  schema.Name,
		Table:   schema.Table,
		OrderBy: schema.qualify(schema.pk()),
	}

	present, err := collect(schema, criteria)
	if err != nil {
		return Descriptor{}, err
	}

	if p := schema.Parent; p != nil {
		if v, ok := present[p.Field]; ok {
			d.Joins = append(d.Joins, Join{
				Table: p.Table,
				On:    schema.qualify(p.Column) + " = " + p.Table + "." + p.RefColumn,
			})
			d.Predicates = append(d.Predicates, Predicate{Column: schema.qualify(p.Column), Value: v})
		}
	}
	if len(d.Joins) == 0 {
		d.Seeded = true
	}

	for _, f := range schema.Fields {
		if schema.isParent(f.Name) {
			continue
		}
		if v, ok := present[f.Name]; ok {
			d.Predicates = append(d.Predicates, Predicate{Column: schema.qualify(f.Column), Value: v})
		}
	}

	if window != nil {
		if err := window.Validate(); err != nil {
			return Descriptor{}, err
		}
		d.Bounds = &Bounds{Limit: window.Limit(), Offset: window.Offset()}
	}
	return d, nil
}

// collect 校验条件并按字段名归集，值统一为 int64 或 string
func collect(schema *Schema, criteria Criteria) (map[string]any, error) {
	if criteria == nil {
		return nil, nil
	}
	conds := criteria.Conditions()
	present := make(map[string]any, len(conds))
	for _, c := range conds {
		f, ok := schema.field(c.Field)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidCriteria, "unknown field %q for %s", c.Field, schema.Name)
		}
		if _, dup := present[c.Field]; dup {
			return nil, errors.Newf(errors.ErrCodeInvalidCriteria, "field %q given more than once", c.Field)
		}
		v, ok := normalize(f.Kind, c.Value)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidCriteria, "field %q expects %s, got %T", c.Field, f.Kind, c.Value)
		}
		present[c.Field] = v
	}
	return present, nil
}

func normalize(kind Kind, v any) (any, bool) {
	switch kind {
	case KindInt64:
		switch n := v.(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case int32:
			return int64(n), true
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return nil, false
}
