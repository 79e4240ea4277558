package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/epiphanyresto/menu-backend/internal/config"
	"github.com/epiphanyresto/menu-backend/internal/es"
	"github.com/epiphanyresto/menu-backend/internal/handlers"
	"github.com/epiphanyresto/menu-backend/internal/logging"
	loggingmw "github.com/epiphanyresto/menu-backend/internal/middleware/logging"
	"github.com/epiphanyresto/menu-backend/internal/mykafka"
	"github.com/epiphanyresto/menu-backend/internal/repo"
	"github.com/epiphanyresto/menu-backend/internal/service"
	httpserver "github.com/epiphanyresto/menu-backend/internal/transport/http"
)

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")

	logger := logging.New(configuration.LOG_LEVEL)

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	}

	repository := repo.New(db)
	catalogSvc := &service.CatalogService{
		Repo:         repository,
		DeletePolicy: configuration.CATEGORY_DELETE_POLICY,
	}
	adminSvc := &service.AdminService{Repo: repository}
	session := &service.SessionService{JWTSecret: []byte(configuration.JWT_SECRET)}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		CategoryHandler: &handlers.CategoryHandler{Svc: catalogSvc, Producer: producer},
		ProductHandler:  &handlers.ProductHandler{Svc: catalogSvc, Producer: producer},
		MenuHandler:     &handlers.MenuHandler{Svc: catalogSvc},
		AdminHandler:    &handlers.AdminHandler{Admin: adminSvc, Session: session, Producer: producer},
		QRHandler:       &handlers.QRHandler{DefaultURL: configuration.MENU_PUBLIC_URL},
		Session:         session,
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.ProductHandler.ES = esClient
		deps.ProductHandler.Index = "product"
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: "product"}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
