package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"auto_blog_publisher/auth"
	"auto_blog_publisher/config"
	"auto_blog_publisher/generator"
	"auto_blog_publisher/history"
	"auto_blog_publisher/llm"
	"auto_blog_publisher/pipeline"
	"auto_blog_publisher/publisher"
	"auto_blog_publisher/rotation"
	"auto_blog_publisher/server"
)

func main() {
	serve := flag.Bool("serve", false, "start the web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides SERVER_ADDR)")
	generate := flag.Bool("generate", false, "run one generation cycle and exit")
	topic := flag.String("topic", "", "generate a single draft for this topic (requires --tech)")
	tech := flag.String("tech", "", "technology for --topic")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	// A missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	log := newLogger(cfg.LogLevel)

	rot, err := rotation.New(rotation.PoolFromEnv(), cfg.RotationStatePath(), log)
	if err != nil {
		log.Error("configure provider rotation", "error", err)
		os.Exit(1)
	}

	client := llm.NewOpenRouter(cfg.BaseURL, "Auto Blog Publisher", log)
	gen, err := generator.New(client, rot, cfg.DraftsDir, []string{cfg.PostsDir, cfg.DraftsDir}, log)
	if err != nil {
		log.Error("create generator", "error", err)
		os.Exit(1)
	}

	ledger, err := history.New(cfg.HistoryPath(), log)
	if err != nil {
		log.Error("open history ledger", "error", err)
		os.Exit(1)
	}

	runner, err := pipeline.New(gen, ledger, log)
	if err != nil {
		log.Error("create pipeline", "error", err)
		os.Exit(1)
	}

	switch {
	case *topic != "":
		if *tech == "" {
			fmt.Fprintln(os.Stderr, "--topic requires --tech")
			os.Exit(1)
		}
		draft, err := gen.Generate(context.Background(), *topic, *tech)
		if err != nil {
			log.Error("generate draft", "topic", *topic, "error", err)
			os.Exit(1)
		}
		fmt.Println(draft.Path)

	case *generate:
		entry, err := runner.Run(context.Background())
		if err != nil {
			log.Error("generation cycle failed", "error", err)
			os.Exit(1)
		}
		if entry.Status == history.StatusFailed {
			msg := "generation run failed"
			if entry.Error != nil {
				msg = *entry.Error
			}
			log.Error("generation cycle failed", "message", msg)
			os.Exit(1)
		}
		for _, f := range entry.Files {
			fmt.Println(f)
		}

	case *serve:
		pub, err := buildPublisher(cfg, rot, log)
		if err != nil {
			log.Error("create publisher", "error", err)
			os.Exit(1)
		}
		sessions, err := auth.New(cfg.AdminPassword, cfg.JWTSecret, cfg.JWTExpirationHours, log)
		if err != nil {
			log.Error("configure admin auth", "error", err)
			os.Exit(1)
		}
		srv, err := server.New(runner, gen, pub, ledger, sessions, log)
		if err != nil {
			log.Error("create server", "error", err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		log.Info("starting web server", "addr", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}

	default:
		flag.Usage()
		os.Exit(1)
	}
}

// buildPublisher wires the GitHub store and, when credentials are present,
// the LinkedIn cross-poster.
func buildPublisher(cfg *config.Config, rot *rotation.Rotation, log *slog.Logger) (*publisher.Publisher, error) {
	store, err := publisher.NewGitHub(cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, cfg.GitHubToken, nil, log)
	if err != nil {
		return nil, err
	}

	var social publisher.SocialPoster
	var summarizer llm.Client
	if cfg.LinkedInToken != "" && cfg.LinkedInPersonURN != "" {
		linkedin, err := publisher.NewLinkedIn(cfg.LinkedInToken, cfg.LinkedInPersonURN, nil, log)
		if err != nil {
			return nil, err
		}
		social = linkedin
		summarizer = llm.NewOpenRouter(cfg.BaseURL, "Auto Blog Publisher", log)
	} else {
		log.Info("linkedin credentials not set, cross-posting disabled")
	}

	return publisher.New(cfg.DraftsDir, cfg.RejectedDir, cfg.BaseURL, store, social, summarizer, rot, log)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
