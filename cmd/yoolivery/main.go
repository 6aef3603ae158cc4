package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"yoolivery/internal/app"
	"yoolivery/internal/catalog"
	"yoolivery/internal/config"
	"yoolivery/internal/infra/kvstore"
	"yoolivery/internal/logging"
	"yoolivery/internal/storefront"

	"golang.org/x/crypto/bcrypt"
)

// ローカル動作のトークンはプロセスの外に出ない
const localTokenSecret = "yoolivery-local-session"

const remoteTimeout = 15 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stdout)
		return 0
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}
	log := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)

	store, err := kvstore.Open(cfg.StorePath)
	if err != nil {
		fmt.Fprintln(stderr, "open store:", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := newBackend(cfg, store)
	log.Debug("command", "name", args[0], "backend", cfg.Backend)

	if err := execute(ctx, b, args, stdout); err != nil {
		log.Debug("command failed", "name", args[0], "err", err)
		return report(stderr, err)
	}
	return 0
}

func newBackend(cfg config.ClientConfig, store *kvstore.Store) storefront.Backend {
	if cfg.Backend == config.BackendRemote {
		return storefront.NewRemote(cfg.APIBaseURL, &http.Client{Timeout: remoteTimeout}, store)
	}
	repos := app.NewKVRepos(store, catalog.NewStaticRepository(catalog.Default()))
	return storefront.NewLocal(store, app.NewUsecases(repos, app.Options{
		JWTSecret:      localTokenSecret,
		AccessTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:     bcrypt.DefaultCost,
	}))
}

// エラーの種類ごとに次にすることを出す
func report(w io.Writer, err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(w, "error:", ue.msg)
		return 2
	}

	fmt.Fprintln(w, "error:", storefront.Message(err))
	switch storefront.ActionFor(err) {
	case storefront.ActionRelogin:
		fmt.Fprintln(w, "please sign in again: yoolivery login -email <email> -password <password>")
	case storefront.ActionRetry:
		fmt.Fprintln(w, "please try again")
	}
	return 1
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: yoolivery <command> [flags]

catalog:
  categories
  products [-category C] [-search S] [-page N] [-limit N]
  product <id>

account:
  register -name N -email E -password P -dob YYYY-MM-DD -aadhaar 1234 [-phone P] [-address A]
  login -email E -password P
  logout
  profile
  profile-update [-name N] [-phone P] [-address A]

cart:
  cart
  add <product-id> [-qty N]
  set <product-id> -qty N      (0 removes)
  remove <product-id>
  clear

orders:
  checkout -address A [-payment COD] [-key K]
  orders
  order <id>

environment:
  YOOLIVERY_BACKEND=local|remote, API_BASE_URL, STORE_PATH, LOG_LEVEL
`)
}
