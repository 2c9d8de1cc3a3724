package basic

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	dbcore "sndeals/data/db"
)

// field 结构体字段到列的映射
type field struct {
	column        string
	index         []int
	primaryKey    bool
	autoIncrement bool
}

type structFields struct {
	list     []field
	byColumn map[string]field
}

// autoKey 自增主键字段
func (s *structFields) autoKey() (field, bool) {
	for _, f := range s.list {
		if f.primaryKey && f.autoIncrement {
			return f, true
		}
	}
	return field{}, false
}

// fieldCache 按类型缓存映射，Orm 与其事务会话共享
type fieldCache struct {
	mu    sync.RWMutex
	types map[reflect.Type]*structFields
}

func newFieldCache() *fieldCache {
	return &fieldCache{types: make(map[reflect.Type]*structFields)}
}

func (c *fieldCache) get(t reflect.Type) *structFields {
	c.mu.RLock()
	sf, ok := c.types[t]
	c.mu.RUnlock()
	if ok {
		return sf
	}
	sf = &structFields{byColumn: make(map[string]field)}
	collectFields(t, nil, sf)
	c.mu.Lock()
	c.types[t] = sf
	c.mu.Unlock()
	return sf
}

// structOf 解出实体的结构体值，entity 须为 struct 或非空 *struct
func (c *fieldCache) structOf(entity any) (reflect.Value, *structFields, error) {
	rv := reflect.ValueOf(entity)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("entity must be struct or *struct, got %T", entity)
	}
	return rv, c.get(rv.Type()), nil
}

// collectFields 展开匿名内嵌结构体；同名列以后出现者为准
func collectFields(t reflect.Type, prefix []int, sf *structFields) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		index := append(append([]int(nil), prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Type != timeType {
			collectFields(f.Type, index, sf)
			continue
		}
		if !isColumnType(f.Type) {
			continue
		}
		fd, ok := parseField(f)
		if !ok {
			continue
		}
		fd.index = index
		sf.list = append(sf.list, fd)
		sf.byColumn[fd.column] = fd
	}
}

// parseField 列名优先级：orm:"column:x" > db:"x" > 字段名 snake_case；db:"-" 跳过
func parseField(f reflect.StructField) (field, bool) {
	var fd field
	for _, part := range strings.Split(f.Tag.Get("orm"), ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "column:"):
			fd.column = strings.TrimPrefix(part, "column:")
		case strings.EqualFold(part, "primaryKey"):
			fd.primaryKey = true
		case strings.EqualFold(part, "autoIncrement"):
			fd.autoIncrement = true
		}
	}
	if fd.column == "" {
		switch tag := f.Tag.Get("db"); tag {
		case "-":
			return field{}, false
		case "":
			fd.column = snakeCase(f.Name)
		default:
			fd.column = tag
		}
	}
	return fd, true
}

var (
	timeType  = reflect.TypeOf(time.Time{})
	bytesType = reflect.TypeOf([]byte(nil))
)

// isColumnType 标量、time.Time、[]byte 及其指针
func isColumnType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType || t == bytesType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// snakeCase CategoryID -> category_id，连续大写视为一个词
func snakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// scanCurrent 把当前行扫描进 dest：*T 或 **T（为 nil 时分配）
func (c *fieldCache) scanCurrent(rows dbcore.IRows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("basic: dest must be a non-nil pointer, got %T", dest)
	}
	target := rv.Elem()
	if target.Kind() == reflect.Pointer {
		if target.Type().Elem().Kind() != reflect.Struct {
			return fmt.Errorf("basic: unsupported dest %T", dest)
		}
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return fmt.Errorf("basic: unsupported dest %T", dest)
	}
	return c.scanRow(rows, target)
}

// scanAll 读取剩余全部行，dest 为 *[]T 或 *[]*T
func (c *fieldCache) scanAll(rows dbcore.IRows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("basic: dest must be a pointer to slice, got %T", dest)
	}
	slice := rv.Elem()
	elemType := slice.Type().Elem()
	byPointer := elemType.Kind() == reflect.Pointer
	if byPointer {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("basic: unsupported slice element %s", slice.Type().Elem())
	}

	for rows.Next() {
		item := reflect.New(elemType)
		if err := c.scanRow(rows, item.Elem()); err != nil {
			return err
		}
		if byPointer {
			slice.Set(reflect.Append(slice, item))
		} else {
			slice.Set(reflect.Append(slice, item.Elem()))
		}
	}
	return rows.Err()
}

// scanRow 按列名对应字段，结构体上没有的列丢弃
func (c *fieldCache) scanRow(rows dbcore.IRows, v reflect.Value) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	sf := c.get(v.Type())
	targets := make([]any, len(cols))
	for i, col := range cols {
		if f, ok := sf.byColumn[col]; ok {
			targets[i] = v.FieldByIndex(f.index).Addr().Interface()
		} else {
			targets[i] = new(any)
		}
	}
	return rows.Scan(targets...)
}

func setInt(v reflect.Value, id int64) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(id)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(id))
	}
}
