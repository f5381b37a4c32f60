package middleware

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ForgottenHistory/Cupid-AI-sub004/internal/swipes"
)

// SwipeMiddleware gates swipe-consuming routes behind the daily budget.
type SwipeMiddleware struct {
	swipeService *swipes.Service
}

func NewSwipeMiddleware(service *swipes.Service) *SwipeMiddleware {
	return &SwipeMiddleware{
		swipeService: service,
	}
}

// RequireSwipeBudget rejects requests from users whose daily swipe budget
// is spent. The user is identified by query parameter or header, matching
// how the frontend already sends it.
func (sm *SwipeMiddleware) RequireSwipeBudget(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			userID = r.Header.Get("X-User-ID")
		}

		if userID == "" {
			http.Error(w, "user not identified", http.StatusBadRequest)
			return
		}

		remaining, err := sm.swipeService.Remaining(userID)
		if err != nil {
			log.Printf("❌ Failed to check swipe budget for %s: %v", userID, err)
			http.Error(w, "failed to check swipe budget", http.StatusInternalServerError)
			return
		}

		if remaining == 0 {
			log.Printf("🚫 Swipe budget exhausted for user %s", userID)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "daily swipe limit reached",
				"message": "Come back tomorrow for more swipes",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
