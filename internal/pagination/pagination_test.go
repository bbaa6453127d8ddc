package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaption(t *testing.T) {
	tests := []struct {
		name   string
		number int
		size   int
		total  int
		want   string
	}{
		{name: "no results", number: 0, size: 10, total: 0, want: "Showing 0-0 of 0"},
		{name: "partial last page", number: 2, size: 10, total: 23, want: "Showing 21-23 of 23"},
		{name: "first page", number: 0, size: 20, total: 95, want: "Showing 1-20 of 95"},
		{name: "full last page", number: 4, size: 20, total: 100, want: "Showing 81-100 of 100"},
		{name: "single item", number: 0, size: 50, total: 1, want: "Showing 1-1 of 1"},
		{name: "past the end", number: 7, size: 10, total: 23, want: "Showing 23-23 of 23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Caption(tt.number, tt.size, tt.total))
		})
	}
}

func TestState(t *testing.T) {
	s := State{Number: 0, Size: 10, TotalPages: 3, TotalElements: 23}
	assert.False(t, s.HasPrevious())
	assert.True(t, s.HasNext())
	assert.Equal(t, "Showing 1-10 of 23", s.Caption())

	s.Number = 2
	assert.True(t, s.HasPrevious())
	assert.False(t, s.HasNext())

	assert.False(t, State{}.HasNext())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 3, TotalPages(23, 10))
	assert.Equal(t, 2, TotalPages(20, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestParams_Validate(t *testing.T) {
	options := []int{10, 20, 50, 100}

	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "valid", params: Params{Page: 3, Size: 20}},
		{name: "valid with sort", params: Params{Size: 10, SortField: "amount", SortOrder: SortOrderDesc}},
		{name: "size not an option", params: Params{Size: 15}, wantErr: ErrInvalidPageSize},
		{name: "zero size", params: Params{Size: 0}, wantErr: ErrInvalidPageSize},
		{name: "bad order", params: Params{Size: 10, SortOrder: "up"}, wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(options)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.Error(t, Params{Page: -1, Size: 10}.Validate(options))
	require.NoError(t, Params{Size: 7}.Validate(nil))
}

func TestFromFlag(t *testing.T) {
	p, err := FromFlag(3, 20)
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 2, Size: 20}, p)

	_, err = FromFlag(0, 20)
	require.ErrorIs(t, err, ErrInvalidPage)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		input     string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{input: "", wantField: "", wantOrder: "asc"},
		{input: "date", wantField: "date", wantOrder: "asc"},
		{input: "amount:DESC", wantField: "amount", wantOrder: "desc"},
		{input: ":desc", wantErr: ErrEmptySortField},
		{input: "a:b:c", wantErr: ErrInvalidSortFormat},
		{input: "amount:sideways", wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, order, err := ParseSort(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestSortFields(t *testing.T) {
	fields := SortFields{"date": "transactionDate", "amount": "amount"}

	field, order, err := fields.Resolve("date:desc")
	require.NoError(t, err)
	assert.Equal(t, "transactionDate", field)
	assert.Equal(t, "desc", order)

	_, _, err = fields.Resolve("colour")
	require.ErrorIs(t, err, ErrInvalidSortField)

	field, _, err = fields.Resolve("")
	require.NoError(t, err)
	assert.Empty(t, field)

	assert.Equal(t, []string{"amount", "date"}, fields.Names())

	p := Params{SortField: field}
	assert.Empty(t, p.SortParam())
	p = Params{SortField: "transactionDate"}
	assert.Equal(t, "transactionDate,asc", p.SortParam())
}
