// Package neonlog is a Markdown blog engine. It serves a static posts
// directory — a posts.json manifest, one Markdown body per post, and a
// per-post asset directory — as a rendered site: filtered list view, post
// pages with a table of contents and highlighted code, RSS, and a sitemap.
//
// The rendering core lives in the manifest, router, render, and controller
// subpackages; this package wires it to Echo.
package neonlog

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/neonlog/neonlog/render"
	"github.com/neonlog/neonlog/views"
)

// App is the central application. It wires together the manifest store, the
// render pipeline, middleware, and routes.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Renderer *render.Pipeline

	site         views.Site
	staticDir    string
	customRoutes []func(*App)
	stopWatch    func()
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
		site: views.Site{
			Name:        cfg.Name,
			URL:         cfg.URL,
			Description: cfg.Description,
			Author:      cfg.Author,
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start loads the manifest, wires middleware and routes, and runs the server.
func (a *App) Start() error {
	store, err := NewStore(filepath.Join(a.Config.PostsDir, "posts.json"))
	if err != nil {
		return fmt.Errorf("neonlog: load manifest: %w", err)
	}
	a.Store = store

	a.Renderer = render.NewPipeline(
		render.DirFetcher{Root: a.Config.PostsDir},
		"/posts",
	)

	if a.Config.WatchManifest {
		stop, err := store.Watch(log.Printf)
		if err != nil {
			return fmt.Errorf("neonlog: watch manifest: %w", err)
		}
		a.stopWatch = stop
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework stylesheet ships embedded; user assets fall through to the
	// static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/theme.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Raw content: manifest, Markdown bodies, per-post assets.
	e.Static("/posts", a.Config.PostsDir)
	e.GET("/posts/:slug/cover.jpg", a.handleCover)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/post/:slug/", a.handlePost)
}

// Close releases background resources. Call when shutting down.
func (a *App) Close() error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("neonlog: required environment variable %s is not set", key)
	}
	return v
}
