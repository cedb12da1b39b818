package consts

import "time"

const (
	DBCtxTimeout = 3 * time.Second

	// Fixed result windows of the storefront lists.
	LatestBooksLimit  = 6
	SpecialBooksLimit = 5
	TopVisitedLimit   = 5
)
