package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"sndeals/errors"
)

// Condition 一个已设置的过滤槽位
type Condition struct {
	Field string
	Value any
}

// Criteria 某类实体的过滤条件集合，只列出已设置的槽位
type Criteria interface {
	Conditions() []Condition
}

// Values 动态条件，供 REST 层从请求参数构造
type Values []Condition

func (v Values) Conditions() []Condition { return v }

// reservedParams 分页与排序参数，不参与条件解析
var reservedParams = map[string]struct{}{
	"page":   {},
	"number": {},
	"size":   {},
	"sort":   {},
}

// equalsSuffix 唯一支持的运算符后缀
const equalsSuffix = "equals"

// ParseValues 把 field=v 与 field.equals=v 形式的请求参数映射为条件。
//
// 未知字段、除 equals 以外的运算符、同一字段多次出现、整数字段无法解析
// 都返回 INVALID_CRITERIA。结果按 schema 字段顺序排列。
func ParseValues(schema *Schema, params url.Values) (Values, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byField := make(map[string]Condition, len(keys))
	for _, key := range keys {
		if _, ok := reservedParams[key]; ok {
			continue
		}
		name, op, hasOp := strings.Cut(key, ".")
		if hasOp && op != equalsSuffix {
			return nil, errors.Newf(errors.ErrCodeInvalidCriteria, "unsupported operator %q on %s.%s", op, schema.Name, name)
		}
		f, ok := schema.field(name)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidCriteria, "unknown field %q for %s", name, schema.Name)
		}
		if _, dup := byField[name]; dup || len(params[key]) != 1 {
			return nil, errors.Newf(errors.ErrCodeInvalidCriteria, "field %q given more than once", name)
		}
		value, err := parseScalar(f, params[key][0])
		if err != nil {
			return nil, err
		}
		byField[name] = Condition{Field: name, Value: value}
	}

	out := make(Values, 0, len(byField))
	for _, f := range schema.Fields {
		if c, ok := byField[f.Name]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func parseScalar(f Field, raw string) (any, error) {
	switch f.Kind {
	case KindInt64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeInvalidCriteria, "field "+f.Name+" expects an integer")
		}
		return n, nil
	default:
		return raw, nil
	}
}
