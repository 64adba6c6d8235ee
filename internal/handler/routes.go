package handler

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes mounts every endpoint on r, both at the root and under /api/v1.
func RegisterRoutes(r *mux.Router, billing *BillingHandler, penalty *PenaltyHandler, health *HealthHandler) {
	if health != nil {
		r.HandleFunc("/health", health.Health).Methods("GET")
		r.HandleFunc("/health/ready", health.Ready).Methods("GET")
	}

	mount(r, billing, penalty)
	mount(r.PathPrefix("/api/v1").Subrouter(), billing, penalty)
}

func mount(r *mux.Router, billing *BillingHandler, penalty *PenaltyHandler) {
	settings := r.PathPrefix("/settings").Subrouter()
	settings.HandleFunc("/penalty-current", penalty.Current).Methods("GET")
	settings.HandleFunc("/penalty-history", penalty.History).Methods("GET")
	settings.HandleFunc("/penalty-impact", penalty.Impact).Methods("GET")
	settings.HandleFunc("/penalty-impact-example", penalty.ImpactExample).Methods("GET")
	settings.HandleFunc("/penalty-update", penalty.Update).Methods("PUT")

	r.HandleFunc("/tenants", billing.CreateTenant).Methods("POST")
	r.HandleFunc("/tenants/{tenantId}", billing.GetTenant).Methods("GET")
	r.HandleFunc("/tenants/{tenantId}", billing.DeactivateTenant).Methods("DELETE")
	r.HandleFunc("/tenants/{tenantId}/rent-factors", billing.UpdateRentFactors).Methods("PUT")
	r.HandleFunc("/tenants/{tenantId}/ledger", billing.GetLedger).Methods("GET")
	r.HandleFunc("/tenants/{tenantId}/payments", billing.ListPayments).Methods("GET")
	r.HandleFunc("/tenants/{tenantId}/payments", billing.MakePayment).Methods("POST")
	r.HandleFunc("/tenants/{tenantId}/payments/preview", billing.PreviewPayment).Methods("POST")

	r.HandleFunc("/properties", billing.CreateProperty).Methods("POST")
	r.HandleFunc("/properties", billing.ListProperties).Methods("GET")
	r.HandleFunc("/properties/{propertyId}", billing.GetProperty).Methods("GET")
}
