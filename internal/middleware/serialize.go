package middleware

import (
	"net/http"
	"sync"
)

// Serialize runs one request at a time through next. The ledger engine holds
// a single session and no locks of its own.
func Serialize(next http.Handler) http.Handler {
	var mu sync.Mutex
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		next.ServeHTTP(w, r)
	})
}
