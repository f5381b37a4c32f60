package swipes

import "errors"

// ErrBudgetExhausted is returned once the user spent today's swipes.
var ErrBudgetExhausted = errors.New("daily swipe limit reached")
