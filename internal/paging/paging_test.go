package paging

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		page  *int
		limit *int
		want  Request
	}{
		{name: "both set", page: intPtr(3), limit: intPtr(25), want: Request{Page: 3, Limit: 25}},
		{name: "page missing", limit: intPtr(25), want: Request{Page: 1, Limit: 10}},
		{name: "limit missing", page: intPtr(4), want: Request{Page: 1, Limit: 10}},
		{name: "both missing", want: Request{Page: 1, Limit: 10}},
		{name: "zero page", page: intPtr(0), limit: intPtr(5), want: Request{Page: 1, Limit: 10}},
		{name: "negative limit", page: intPtr(2), limit: intPtr(-1), want: Request{Page: 1, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.page, tt.limit))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Request{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Request{Page: 5, Limit: 10}.Offset())
	assert.Equal(t, 6, Request{Page: 3, Limit: 3}.Offset())
}

func TestTotalPagesMatchesCeil(t *testing.T) {
	for total := int64(0); total <= 57; total++ {
		for limit := 1; limit <= 12; limit++ {
			want := int(math.Ceil(float64(total) / float64(limit)))
			assert.Equal(t, want, TotalPages(total, limit), "total=%d limit=%d", total, limit)
		}
	}
}

func TestNewUsesCountNotPageLength(t *testing.T) {
	// page 4 of 23 items with limit 10 is past the end: empty list, same total pages
	m := New(Request{Page: 4, Limit: 10}, 23, []string(nil))

	assert.Equal(t, 3, m.TotalPages)
	assert.Equal(t, 4, m.Page)
	assert.NotNil(t, m.ListResult)
	assert.Empty(t, m.ListResult)

	partial := New(Request{Page: 3, Limit: 10}, 23, []string{"a", "b", "c"})
	assert.Equal(t, 3, partial.TotalPages)
	assert.Len(t, partial.ListResult, 3)
}

func TestMap(t *testing.T) {
	m := New(Request{Page: 2, Limit: 2}, 5, []int{3, 4})

	out := Map(m, strconv.Itoa)

	assert.Equal(t, Model[string]{Page: 2, Limit: 2, TotalPages: 3, ListResult: []string{"3", "4"}}, out)
}
