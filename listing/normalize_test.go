package listing

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	var out any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantIDs        []float64
		wantPagination *Pagination
	}{
		{
			name:    "resource collection with meta pagination",
			body:    `{"data":[{"id":1},{"id":2}],"meta":{"pagination":{"current_page":1,"last_page":3,"per_page":2,"total":6}}}`,
			wantIDs: []float64{1, 2},
			wantPagination: &Pagination{
				CurrentPage: 1, LastPage: 3, PerPage: 2, Total: 6,
			},
		},
		{
			name:    "laravel meta without nested pagination",
			body:    `{"data":[{"id":1}],"meta":{"current_page":2,"last_page":2,"per_page":15,"total":16}}`,
			wantIDs: []float64{1},
			wantPagination: &Pagination{
				CurrentPage: 2, LastPage: 2, PerPage: 15, Total: 16,
			},
		},
		{
			name:    "flattened pagination",
			body:    `{"data":[{"id":7}],"current_page":"1","last_page":4,"per_page":1,"total":4}`,
			wantIDs: []float64{7},
			wantPagination: &Pagination{
				CurrentPage: 1, LastPage: 4, PerPage: 1, Total: 4,
			},
		},
		{
			name:    "data list without pagination",
			body:    `{"success":true,"data":[{"id":3}]}`,
			wantIDs: []float64{3},
		},
		{
			name:    "bare list",
			body:    `[{"id":1},{"id":2},{"id":3}]`,
			wantIDs: []float64{1, 2, 3},
		},
		{
			name:    "single object under data",
			body:    `{"data":{"id":1}}`,
			wantIDs: []float64{},
		},
		{
			name:    "single record",
			body:    `{"id":1,"judul":"Gowes"}`,
			wantIDs: []float64{},
		},
		{
			name:    "non object entries are skipped",
			body:    `[{"id":1},"x",2,null]`,
			wantIDs: []float64{1},
		},
		{
			name:    "null",
			body:    `null`,
			wantIDs: []float64{},
		},
		{
			name:    "string",
			body:    `"nope"`,
			wantIDs: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, pagination := Normalize(decode(t, tt.body))
			require.NotNil(t, items)

			ids := make([]float64, 0, len(items))
			for _, item := range items {
				ids = append(ids, item["id"].(float64))
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPagination, pagination); diff != "" {
				t.Errorf("pagination mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeStrict(t *testing.T) {
	_, _, err := NormalizeStrict(decode(t, `{"data":[]}`))
	assert.NoError(t, err)

	_, _, err = NormalizeStrict(decode(t, `[]`))
	assert.NoError(t, err)

	for _, body := range []string{`{"data":{"id":1}}`, `{"id":1}`, `null`, `42`} {
		items, pagination, err := NormalizeStrict(decode(t, body))
		assert.ErrorIs(t, err, ErrUnrecognizedShape, body)
		assert.Empty(t, items, body)
		assert.NotNil(t, items, body)
		assert.Nil(t, pagination, body)
	}
}

func TestSingle(t *testing.T) {
	rec, ok := Single(decode(t, `{"data":{"slug":"gowes"}}`))
	require.True(t, ok)
	assert.Equal(t, "gowes", rec["slug"])

	rec, ok = Single(decode(t, `{"slug":"ballerina"}`))
	require.True(t, ok)
	assert.Equal(t, "ballerina", rec["slug"])

	_, ok = Single(decode(t, `[1,2]`))
	assert.False(t, ok)
}

func TestPaginationHasPage(t *testing.T) {
	p := Pagination{CurrentPage: 2, LastPage: 3}
	assert.False(t, p.HasPage(0))
	assert.True(t, p.HasPage(1))
	assert.True(t, p.HasPage(3))
	assert.False(t, p.HasPage(4))

	assert.True(t, Pagination{}.HasPage(1))
}
