package query

import "net/url"

// TransactionQuery is everything needed to fetch one page of transactions.
type TransactionQuery struct {
	Filter Filter
	Sort   Sort
	Page   Page
}

func FromValues(v url.Values, l Limits) (TransactionQuery, error) {
	sort, err := ParseSort(v.Get("sortBy"), v.Get("sortOrder"))
	if err != nil {
		return TransactionQuery{}, err
	}

	page, err := ParsePage(v.Get("page"), v.Get("limit"), l)
	if err != nil {
		return TransactionQuery{}, err
	}

	return TransactionQuery{
		Filter: Filter{
			Category: v.Get("category"),
			Status:   v.Get("status"),
			UserID:   v.Get("user_id"),
			Search:   NewSearch(v.Get("search")),
		},
		Sort: sort,
		Page: page,
	}, nil
}
