package listctl

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/pagination"
)

// Paged adapts an endpoint that returns a whole collection (categories,
// budgets) to a Fetcher by slicing the response into the requested page.
// Paging and sort parameters are stripped before list is called.
func Paged[T any](list func(ctx context.Context, filters url.Values) ([]T, error)) Fetcher[T] {
	return func(ctx context.Context, query url.Values) (api.Page[T], error) {
		page, _ := strconv.Atoi(query.Get(ParamPage))
		size, _ := strconv.Atoi(query.Get(ParamSize))

		filters := url.Values{}
		for k, v := range query {
			if k != ParamPage && k != ParamSize && k != ParamSort {
				filters[k] = v
			}
		}

		all, err := list(ctx, filters)
		if err != nil {
			return api.Page[T]{}, err
		}

		if size <= 0 {
			size = max(len(all), 1)
		}
		total := len(all)
		content := []T{}
		if start := page * size; start >= 0 && start < total {
			content = all[start:min(start+size, total)]
		}
		return api.Page[T]{
			Content:       content,
			Number:        page,
			Size:          size,
			TotalPages:    pagination.TotalPages(total, size),
			TotalElements: total,
		}, nil
	}
}
