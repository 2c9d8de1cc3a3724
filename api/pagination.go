package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sndeals/errors"
	"sndeals/query"
	"sndeals/validation"
)

// parseWindow 读取分页参数：number 从 1 开始；page 从 0 开始，与 number 二选一
func parseWindow(c *gin.Context, cfg *RouteConfig) (*query.PageWindow, error) {
	w := &query.PageWindow{Size: cfg.DefaultPageSize, Number: 1}

	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeInvalidPageWindow, "invalid size %q", raw)
		}
		w.Size = size
	}

	number, page := c.Query("number"), c.Query("page")
	switch {
	case number != "" && page != "":
		return nil, errors.NewError(errors.ErrCodeInvalidPageWindow, "use either number or page, not both")
	case number != "":
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeInvalidPageWindow, "invalid number %q", number)
		}
		w.Number = n
	case page != "":
		p, err := strconv.Atoi(page)
		if err != nil || p == math.MaxInt {
			return nil, errors.Newf(errors.ErrCodeInvalidPageWindow, "invalid page %q", page)
		}
		w.Number = p + 1
	}

	if err := validation.ValidatePageParams(w.Number, w.Size, cfg.MaxPageSize); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// linkHeader RFC 5988 分页链接；number 为 1 起始
func linkHeader(u *url.URL, number, size, totalPages int) string {
	link := func(n int, rel string) string {
		q := u.Query()
		q.Del("page")
		q.Set("number", strconv.Itoa(n))
		q.Set("size", strconv.Itoa(size))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, u.Path, q.Encode(), rel)
	}

	last := totalPages
	if last < 1 {
		last = 1
	}
	links := make([]string, 0, 4)
	// number < totalPages 保证 number+1 不溢出
	if number < totalPages {
		links = append(links, link(number+1, "next"))
	}
	if number > 1 {
		links = append(links, link(number-1, "prev"))
	}
	links = append(links, link(last, "last"), link(1, "first"))
	return strings.Join(links, ",")
}
