package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hookline/hookline/internal/logger"
)

const headerDeliveryID = "Linear-Delivery"

// DeliveryID is HTTP middleware that extracts the tracker's delivery ID
// from the request header or generates a new one. The ID is stored in
// the context and set on the response header.
func DeliveryID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerDeliveryID)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), id)
		w.Header().Set(headerDeliveryID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
