package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/endcrown/liberty-engine/internal/auth"
	"github.com/endcrown/liberty-engine/internal/config"
	"github.com/endcrown/liberty-engine/internal/db"
	"github.com/endcrown/liberty-engine/internal/logging"
	"github.com/endcrown/liberty-engine/internal/mail"
	"github.com/endcrown/liberty-engine/internal/middleware"
	"github.com/endcrown/liberty-engine/internal/setting"
	"github.com/endcrown/liberty-engine/internal/wiki"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "LibertyEngine API is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.Load()
	log := logging.NewDefault()

	conn := db.Connect(cfg.DatabaseURL)

	auth.Init()
	wiki.Init()

	settings := setting.NewStore(conn)
	settings.Init()

	var mailer mail.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = mail.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
	} else {
		mailer = &mail.LogMailer{Log: log}
	}

	tokens := auth.NewTokenService(conn, cfg)
	svc := auth.NewService(conn, tokens, mailer, settings, cfg, log)
	handler := auth.NewHandler(svc, cfg, log)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)
	r.Get("/mail-confirm", handler.MailConfirm)
	r.Mount("/auth", auth.SetupRoutes(handler))

	log.Info(context.Background(), "server listening", "port", cfg.Port)
	http.ListenAndServe("0.0.0.0:"+cfg.Port, r)
}
