package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Ponloe/postboard/internal/api"
	"github.com/Ponloe/postboard/internal/auth"
	"github.com/Ponloe/postboard/internal/config"
	"github.com/Ponloe/postboard/internal/database"
	"github.com/Ponloe/postboard/internal/posts"
	"github.com/Ponloe/postboard/internal/store/gormstore"
	"github.com/Ponloe/postboard/internal/store/mongostore"
	"github.com/Ponloe/postboard/internal/users"
)

type repositories struct {
	users users.Repository
	posts posts.Repository
	close func()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	repos, err := openRepositories(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer repos.close()

	r := api.NewRouter(api.Deps{
		Users:  repos.users,
		Posts:  repos.posts,
		Tokens: auth.NewTokenService([]byte(cfg.JWT.Secret), cfg.JWT.TTL),
	}, gin.Logger(), gin.Recovery())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (store=%s)", srv.Addr, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func openRepositories(cfg config.Database) (*repositories, error) {
	switch cfg.Driver {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		st, err := mongostore.New(ctx, client.Database(cfg.MongoDB))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &repositories{
			users: st.Users(),
			posts: st.Posts(),
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}

	var st *gormstore.Store
	if cfg.Driver == "postgres" {
		db, err := database.OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		if st, err = gormstore.New(db); err != nil {
			return nil, err
		}
	} else {
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if st, err = gormstore.New(db); err != nil {
			return nil, err
		}
	}
	return &repositories{
		users: st.Users(),
		posts: st.Posts(),
		close: func() { _ = st.Close() },
	}, nil
}
