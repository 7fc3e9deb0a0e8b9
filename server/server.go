package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/intake"
	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/handler/enquiry"
	"github.com/indieprop/homestead/server/handler/lead"
	"github.com/indieprop/homestead/server/handler/listing"
	"github.com/indieprop/homestead/server/handler/payment"
	"github.com/indieprop/homestead/server/handler/user"
	"github.com/indieprop/homestead/server/middleware"
	"github.com/indieprop/homestead/server/state"
	"github.com/indieprop/homestead/storage/docs"
	"github.com/indieprop/homestead/storage/media/factory"
)

func collections() []docs.Collection {
	return []docs.Collection{
		{Name: schema.CollectionListings},
		{Name: schema.CollectionLeads},
		{Name: schema.CollectionEnquiries},
		{Name: schema.CollectionPayments},
		{Name: schema.CollectionUsers, Unique: []string{"email", "username"}},
	}
}

func BuildState(cfg *config.Config) (*state.HomesteadState, error) {
	docStore, err := docs.NewSQLDocStore(&cfg.Docs, collections())
	if err != nil {
		return nil, fmt.Errorf("failed to build document store: %w", err)
	}

	mediaStore, err := factory.Create(&cfg.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to build media store: %w", err)
	}

	if mediaStore == nil {
		log.Println("no media store configured - uploads will be embedded as data urls")
	}

	return &state.HomesteadState{
		Cfg:   cfg,
		Docs:  docStore,
		Media: mediaStore,
		Transcoder: &intake.Transcoder{
			Store:         mediaStore,
			InlineMaxSize: int64(cfg.Media.InlineMaxSize),
		},
	}, nil
}

func Routes(cfg *config.Config, st *state.HomesteadState) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("POST /listings", middleware.RequireAuth(cfg, listing.HandleCreate(st)))
	mux.Handle("GET /listings", middleware.WithRequestLog(listing.HandleList(st)))
	mux.Handle("GET /listings/{id}", middleware.WithRequestLog(listing.HandleGet(st)))
	mux.Handle("PATCH /listings/{id}", middleware.RequireAuth(cfg, listing.HandleUpdate(st)))
	mux.Handle("DELETE /listings/{id}", middleware.RequireAuth(cfg, listing.HandleDelete(st)))

	mux.Handle("POST /leads", middleware.WithRequestLog(lead.HandleCreate(st)))
	mux.Handle("GET /leads", middleware.RequireAuth(cfg, lead.HandleList(st)))
	mux.Handle("GET /leads/{id}", middleware.RequireAuth(cfg, lead.HandleGet(st)))

	mux.Handle("POST /enquiries", middleware.WithRequestLog(enquiry.HandleCreate(st)))
	mux.Handle("GET /enquiries", middleware.RequireAuth(cfg, enquiry.HandleList(st)))

	mux.Handle("POST /payments", middleware.RequireAuth(cfg, payment.HandleCreate(st)))
	mux.Handle("GET /payments/{id}", middleware.RequireAuth(cfg, payment.HandleGet(st)))

	mux.Handle("POST /users", middleware.RequireAuth(cfg, user.HandleCreate(st)))
	mux.Handle("GET /users/{id}", middleware.RequireAuth(cfg, user.HandleGet(st)))

	return mux
}

func StartServer(cfg *config.Config) {
	st, err := BuildState(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Docs.Close()

	bindAddress := fmt.Sprintf("%v:%v", cfg.Server.Address, cfg.Server.Port)
	log.Printf("serving http requests on %q", bindAddress)
	log.Fatal(http.ListenAndServe(bindAddress, Routes(cfg, st)))
}
