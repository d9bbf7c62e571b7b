package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/atelier/backoffice/internal/api"
	orderapp "github.com/atelier/backoffice/internal/application/order"
	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/infrastructure/auth"
	"github.com/atelier/backoffice/internal/infrastructure/cache"
	"github.com/atelier/backoffice/internal/infrastructure/config"
	"github.com/atelier/backoffice/internal/infrastructure/draft"
	"github.com/atelier/backoffice/internal/infrastructure/logger"
	"github.com/atelier/backoffice/internal/infrastructure/rest"
	"github.com/atelier/backoffice/internal/query"
)

func main() {
	var (
		token      string
		pageFlag   int
		nameFilter string
	)
	flag.StringVar(&token, "token", os.Getenv("ATELIER_TOKEN"), "Bearer token for the back-office API")
	flag.IntVar(&pageFlag, "page", 1, "Page number for list commands")
	flag.StringVar(&nameFilter, "name", "", "Free-text name filter for the catalog")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()
	log.Debug("Configuration loaded",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env))

	tokens := auth.NewTokenStore(log)
	if token != "" {
		tokens.SetToken(token)
	}
	tokens.OnLogout(func() {
		log.Warn("Session ended by the server, sign in again")
	})

	store, err := cache.NewStoreFactory(cfg.Cache, cache.WithFactoryLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() {
		_ = store.Close()
	}()

	rc := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout, tokens, rest.WithLogger(log))
	apiClient := api.New(rc, query.New(store, cfg.Cache.TTL, log))
	ctx := context.Background()

	switch command {
	case "clients":
		listClients(ctx, apiClient, pageFlag)
	case "catalog":
		listCatalog(ctx, apiClient, nameFilter, pageFlag)
	case "orders":
		listOrders(ctx, apiClient, pageFlag)
	case "permissions":
		showPermissions(ctx, apiClient)
	case "watch-permissions":
		watchPermissions(apiClient, cfg, log)
	case "submit-order":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "submit-order needs a payload file")
			os.Exit(1)
		}
		submitOrder(ctx, apiClient, log, args[1])
	case "draft":
		showDraft(cfg, log, args[1:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func listClients(ctx context.Context, apiClient *api.API, pageNum int) {
	result, err := apiClient.Clients.List(ctx, pageNum)
	exitOn(err)
	for _, c := range result.Data {
		fmt.Printf("%6d  %s\n", c.ID, c.FullName())
	}
	fmt.Printf("page %d of %d (%d clients)\n", result.CurrentPage, result.TotalPages, result.Total)
}

func listCatalog(ctx context.Context, apiClient *api.API, name string, pageNum int) {
	result, err := apiClient.Cloths.List(ctx, catalog.ClothFilter{Name: name, Page: pageNum})
	exitOn(err)
	for _, c := range result.Data {
		fmt.Printf("%6d  %-10s %-30s %-15s %s\n", c.ID, c.Code, c.Name, c.Status, c.Price)
	}
	fmt.Printf("page %d of %d (%d cloths)\n", result.CurrentPage, result.TotalPages, result.Total)
}

func listOrders(ctx context.Context, apiClient *api.API, pageNum int) {
	result, err := apiClient.Orders.List(ctx, pageNum)
	exitOn(err)
	for _, o := range result.Data {
		fmt.Printf("%6d  %-10s client=%d total=%s remaining=%s\n",
			o.ID, o.Status, o.ClientID, o.Total, o.Remaining)
	}
	fmt.Printf("page %d of %d (%d orders)\n", result.CurrentPage, result.TotalPages, result.Total)
}

func showPermissions(ctx context.Context, apiClient *api.API) {
	perms, err := apiClient.Permissions.Mine(ctx)
	exitOn(err)
	for _, p := range perms {
		fmt.Println(p)
	}
}

func watchPermissions(apiClient *api.API, cfg *config.Config, log *zap.Logger) {
	poller, err := apiClient.Permissions.Watch(cfg.Permissions.PollInterval, log)
	exitOn(err)
	poller.Subscribe(func(perms []string) {
		log.Info("Permissions refreshed", zap.Strings("permissions", perms))
	})
	poller.Start()
	defer func() {
		_ = poller.Stop()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// submitOrder posts a prepared order payload through the same idempotent
// create the interactive flow uses
func submitOrder(ctx context.Context, apiClient *api.API, log *zap.Logger, path string) {
	raw, err := os.ReadFile(path)
	exitOn(err)
	var payload map[string]any
	exitOn(json.Unmarshal(raw, &payload))

	messenger := orderapp.LogMessenger{Logger: log}
	created, err := apiClient.Orders.Create(ctx, payload)
	if err != nil {
		messenger.Error(err.Error())
		os.Exit(1)
	}
	messenger.Success("Order created: " + strconv.FormatInt(created.ID, 10))
}

// showDraft inspects or clears the pending order draft
func showDraft(cfg *config.Config, log *zap.Logger, args []string) {
	drafts, err := draft.Open(cfg.Draft.Path, log)
	exitOn(err)
	defer func() {
		_ = drafts.Close()
	}()

	if len(args) > 0 && args[0] == "clear" {
		exitOn(drafts.Delete(draft.Key))
		fmt.Println("draft cleared")
		return
	}

	exists, err := drafts.Exists(draft.Key)
	exitOn(err)
	if exists {
		fmt.Println("a saved order draft is pending; it will be restored on the next order")
	} else {
		fmt.Println("no saved order draft")
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: backoffice [flags] <command>

Commands:
  clients              List clients
  catalog              List the cloth catalog
  orders               List orders
  permissions          Show the current user's permissions
  watch-permissions    Poll permissions until interrupted
  submit-order <file>  Submit an order payload from a JSON file
  draft [clear]        Inspect or clear the pending order draft

Flags:
  -token   Bearer token (defaults to ATELIER_TOKEN)
  -page    Page number for list commands
  -name    Name filter for the catalog`)
}
