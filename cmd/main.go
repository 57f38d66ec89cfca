package main

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-ops-ledger/internal/auth"
	"github.com/ukydev/fleet-ops-ledger/internal/bookouts"
	"github.com/ukydev/fleet-ops-ledger/internal/config"
	"github.com/ukydev/fleet-ops-ledger/internal/dashboard"
	"github.com/ukydev/fleet-ops-ledger/internal/db"
	"github.com/ukydev/fleet-ops-ledger/internal/expenses"
	"github.com/ukydev/fleet-ops-ledger/internal/handlers"
	"github.com/ukydev/fleet-ops-ledger/internal/invoices"
	"github.com/ukydev/fleet-ops-ledger/internal/ledger"
	"github.com/ukydev/fleet-ops-ledger/internal/middleware"
	"github.com/ukydev/fleet-ops-ledger/internal/telemetry"
	"github.com/ukydev/fleet-ops-ledger/internal/trips"
)

func main() {
	cfg := config.Load()

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	log.Info("connected to MongoDB")

	stores := db.NewStores(client.Database(cfg.Database))

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	ledgerService := ledger.NewService(stores.Transactions)
	tripService := trips.NewService(stores.Trips, stores.Vehicles, stores.Drivers, stores.Clients)
	bookoutService := bookouts.NewService(stores.Bookouts, stores.Trips, stores.Drivers, ledgerService)
	expenseService := expenses.NewService(stores.Expenses, stores.Trips)
	invoiceService := invoices.NewService(stores.Invoices, stores.Trips, stores.Clients, ledgerService)
	aggregator := dashboard.NewAggregator(stores.Trips, stores.Vehicles, stores.Expenses, stores.Invoices)

	authHandler := handlers.NewAuthHandler(authService, stores.Users)
	tripHandler := handlers.NewTripHandler(tripService, ledgerService)
	bookoutHandler := handlers.NewBookoutHandler(bookoutService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	dashboardHandler := handlers.NewDashboardHandler(aggregator)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)

	mux.HandleFunc("POST /api/trips", tripHandler.Deploy)
	mux.HandleFunc("GET /api/trips", tripHandler.List)
	mux.HandleFunc("GET /api/trips/{id}", tripHandler.Get)
	mux.HandleFunc("PUT /api/trips/{id}", tripHandler.EditDeployment)
	mux.HandleFunc("POST /api/trips/{id}/transition", tripHandler.Transition)
	mux.HandleFunc("POST /api/trips/{id}/progress", tripHandler.Progress)
	mux.HandleFunc("POST /api/trips/{id}/allocate-fuel", tripHandler.AllocateFuel)
	mux.HandleFunc("PUT /api/trips/{id}/fuel", tripHandler.SetFuel)
	mux.HandleFunc("GET /api/trips/{id}/transactions", tripHandler.Transactions)
	mux.HandleFunc("GET /api/trips/{id}/bookouts", bookoutHandler.ListByTrip)
	mux.HandleFunc("GET /api/trips/{id}/expenses", expenseHandler.ListByTrip)
	mux.HandleFunc("GET /api/trips/{id}/invoices", invoiceHandler.ListByTrip)

	mux.HandleFunc("POST /api/bookouts", bookoutHandler.Create)
	mux.HandleFunc("GET /api/bookouts/{id}", bookoutHandler.Get)
	mux.HandleFunc("POST /api/bookouts/{id}/reconcile", bookoutHandler.Reconcile)

	mux.HandleFunc("POST /api/expenses", expenseHandler.Create)
	mux.HandleFunc("GET /api/expenses", expenseHandler.List)
	mux.HandleFunc("GET /api/expenses/{id}", expenseHandler.Get)
	mux.HandleFunc("POST /api/expenses/{id}/approve", expenseHandler.Approve)
	mux.HandleFunc("POST /api/expenses/{id}/reject", expenseHandler.Reject)

	mux.HandleFunc("POST /api/invoices", invoiceHandler.Create)
	mux.HandleFunc("GET /api/invoices/{id}", invoiceHandler.Get)
	mux.HandleFunc("POST /api/invoices/{id}/send", invoiceHandler.Send)
	mux.HandleFunc("POST /api/invoices/{id}/pay", invoiceHandler.MarkPaid)
	mux.HandleFunc("POST /api/invoices/{id}/partial", invoiceHandler.RecordPartial)

	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Summary)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	if cfg.MQTTBroker != "" {
		subscriber, err := telemetry.NewProgressSubscriber(cfg.MQTTBroker, cfg.ProgressTopic, tripService)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to MQTT broker")
		}
		if err := subscriber.Start(); err != nil {
			log.WithError(err).Fatal("failed to subscribe to progress topic")
		}
		defer subscriber.Stop()
	}

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
