package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/neonlog/neonlog"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "new":
		if err := runNew(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("neonlog %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`neonlog - a Markdown blog engine

Usage:
  neonlog <command> [arguments]

Commands:
  serve         Serve the blog over HTTP
  new           Scaffold a new post and prepend it to posts.json
  export        Render the whole site to static HTML files
  version       Print the neonlog version
  help          Show this help message

Examples:
  neonlog serve -posts ./posts -addr :3000 -watch
  neonlog new -title "Hello World" -date 2024-01-15 -tags go,web
  neonlog export -posts ./posts -out ./dist`)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", neonlog.EnvOr("ADDR", ":3000"), "listen address")
	postsDir := fs.String("posts", neonlog.EnvOr("POSTS_DIR", "posts"), "posts directory")
	staticDir := fs.String("public", neonlog.EnvOr("STATIC_DIR", "public"), "static assets directory")
	watch := fs.Bool("watch", false, "reload the manifest when posts.json changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := neonlog.SiteConfig{
		Name:          neonlog.EnvOr("SITE_NAME", "Blog"),
		URL:           neonlog.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          *addr,
		PostsDir:      *postsDir,
		WatchManifest: *watch,
	}

	app := neonlog.New(cfg, neonlog.WithStaticDir(*staticDir))
	defer app.Close()
	return app.Start()
}
