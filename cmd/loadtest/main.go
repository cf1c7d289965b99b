// Команда loadtest нагружает marketplace конкурирующими покупками одной
// публикации и проверяет, что остаток не ушёл в минус и сошёлся с заказами.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
	"github.com/vladislavdragonenkov/marketplace/internal/caller"
	grpcsvc "github.com/vladislavdragonenkov/marketplace/internal/service/grpc"
)

const (
	methodScenario = "scenario"
	kindNoStock    = "InsufficientStock"
	tokenTTL       = time.Hour
)

type loadMode string

const (
	modeCreate            loadMode = "create"
	modeCreateShip        loadMode = "create-ship"
	modeCreateShipReceive loadMode = "create-ship-receive"
	modeCreateCancel      loadMode = "create-cancel"
)

type config struct {
	addr         string
	total        int
	totalSet     bool
	duration     time.Duration
	concurrency  int
	connections  int
	timeout      time.Duration
	mode         loadMode
	stock        int
	qty          int
	priceMinor   int64
	identityTag  string
	authSecret   string
	authIssuer   string
	authAudience string
	outputPath   string
}

// outcome — результат вызова для отчёта.
type outcome struct {
	name     string
	expected bool
}

func outcomeOf(err error) outcome {
	if err == nil {
		return outcome{name: outcomeOK}
	}
	st, ok := status.FromError(err)
	if !ok {
		return outcome{name: codes.Unknown.String()}
	}
	if kind := grpcsvc.KindFromStatus(st); kind != "" {
		return outcome{name: kind, expected: kind == kindNoStock}
	}
	return outcome{name: st.Code().String()}
}

func parseConfig() (config, error) {
	var cfg config
	var modeValue string

	flag.StringVar(&cfg.addr, "addr", "localhost:50051", "gRPC target address")
	flag.IntVar(&cfg.total, "total", 400, "total purchase scenarios in count mode; in duration mode only used when explicitly set")
	flag.DurationVar(&cfg.duration, "duration", 0, "optional time-based run duration (e.g. 10m)")
	flag.IntVar(&cfg.concurrency, "concurrency", 40, "number of concurrent buyers")
	flag.IntVar(&cfg.connections, "connections", 20, "number of gRPC client connections")
	flag.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-RPC timeout")
	flag.StringVar(&modeValue, "mode", string(modeCreate), "load mode: create | create-ship | create-ship-receive | create-cancel")
	flag.IntVar(&cfg.stock, "stock", 200, "initial stock of the contended listing")
	flag.IntVar(&cfg.qty, "qty", 1, "quantity per order")
	flag.Int64Var(&cfg.priceMinor, "price-minor", 1000, "listing price in minor units")
	flag.StringVar(&cfg.identityTag, "identity-tag", "load", "prefix for generated identities")
	flag.StringVar(&cfg.authSecret, "auth-secret", "", "HMAC secret to sign bearer tokens; empty sends x-caller-id")
	flag.StringVar(&cfg.authIssuer, "auth-issuer", "", "token issuer")
	flag.StringVar(&cfg.authAudience, "auth-audience", "", "token audience")
	flag.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	flag.Parse()

	flag.CommandLine.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	mode, err := parseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.mode = mode

	switch {
	case cfg.duration < 0:
		return cfg, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when duration is not set")
	case cfg.duration > 0 && cfg.totalSet && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case cfg.connections <= 0:
		return cfg, errors.New("connections must be > 0")
	case cfg.timeout <= 0:
		return cfg, errors.New("timeout must be > 0")
	case cfg.stock < 0 || cfg.stock > int(^uint32(0)>>1):
		return cfg, errors.New("stock must fit into int32 and be >= 0")
	case cfg.qty <= 0 || (cfg.stock > 0 && cfg.qty > cfg.stock):
		return cfg, errors.New("qty must be > 0 and not exceed stock")
	case cfg.priceMinor < 0:
		return cfg, errors.New("price-minor must be >= 0")
	case strings.TrimSpace(cfg.identityTag) == "":
		return cfg, errors.New("identity-tag is required")
	}

	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch mode := loadMode(strings.TrimSpace(value)); mode {
	case modeCreate, modeCreateShip, modeCreateShipReceive, modeCreateCancel:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	conns := make([]*grpc.ClientConn, 0, cfg.connections)
	clients := make([]marketplacev1.MarketplaceServiceClient, 0, cfg.connections)
	for i := 0; i < cfg.connections; i++ {
		conn, dialErr := grpc.NewClient(cfg.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if dialErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to create grpc client connection: %v\n", dialErr)
			os.Exit(1)
		}
		conns = append(conns, conn)
		clients = append(clients, marketplacev1.NewMarketplaceServiceClient(conn))
	}
	defer func() {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}()

	result, err := execute(clients, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load test failed: %v\n", err)
		os.Exit(1)
	}

	printReport(result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}

	if result.FailedScenarios > 0 || (result.Stock != nil && !result.Stock.Consistent) {
		os.Exit(1)
	}
}

// runner держит общее состояние прогона: продавца и оспариваемую публикацию.
type runner struct {
	cfg       config
	runID     string
	col       *collector
	seller    string
	listingID int64
}

// execute готовит продавца с публикацией, прогоняет сценарии покупателей и
// сверяет итоговый остаток.
func execute(clients []marketplacev1.MarketplaceServiceClient, cfg config) (report, error) {
	if len(clients) == 0 {
		return report{}, errors.New("at least one client is required")
	}

	startedAt := time.Now()
	r := &runner{
		cfg:   cfg,
		runID: fmt.Sprintf("%d-%d", startedAt.UnixNano(), os.Getpid()),
		col:   newCollector(),
	}
	if err := r.setup(clients[0]); err != nil {
		return report{}, fmt.Errorf("setup: %w", err)
	}

	jobs := make(chan int, cfg.concurrency*2)
	var wg sync.WaitGroup
	for workerID := 0; workerID < cfg.concurrency; workerID++ {
		wg.Add(1)
		go func(cli marketplacev1.MarketplaceServiceClient) {
			defer wg.Done()
			for id := range jobs {
				_ = r.runScenario(cli, id)
			}
		}(clients[workerID%len(clients)])
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	result := r.col.buildReport(startedAt, time.Since(startedAt))

	stock, err := r.verifyStock(clients[0])
	if err != nil {
		return result, fmt.Errorf("verify stock: %w", err)
	}
	result.Stock = &stock
	return result, nil
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; ; i++ {
		if cfg.totalSet && i >= cfg.total {
			return
		}

		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

// callContext возвращает контекст с таймаутом и идентичностью вызывающего.
func (r *runner) callContext(identity string) (context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.timeout)
	if r.cfg.authSecret == "" {
		return grpcsvc.IdentityMetadata(ctx, identity), cancel, nil
	}

	token, err := caller.IssueToken(caller.Config{
		Secret:   r.cfg.authSecret,
		Issuer:   r.cfg.authIssuer,
		Audience: r.cfg.authAudience,
	}, identity, tokenTTL, time.Now())
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token), cancel, nil
}

// call выполняет RPC от имени identity и учитывает его в отчёте.
func (r *runner) call(method, identity string, fn func(ctx context.Context) error) error {
	ctx, cancel, err := r.callContext(identity)
	if err != nil {
		return err
	}
	defer cancel()

	start := time.Now()
	err = fn(ctx)
	r.col.record(method, time.Since(start), outcomeOf(err))
	return err
}

func (r *runner) setup(client marketplacev1.MarketplaceServiceClient) error {
	r.seller = fmt.Sprintf("%s-seller-%s", r.cfg.identityTag, r.runID)

	if err := r.call("Register", r.seller, func(ctx context.Context) error {
		_, err := client.Register(ctx, &marketplacev1.RegisterRequest{Name: "Load", Surname: "Seller", Role: "seller"})
		return err
	}); err != nil {
		return err
	}

	var productID int64
	if err := r.call("CreateProduct", r.seller, func(ctx context.Context) error {
		resp, err := client.CreateProduct(ctx, &marketplacev1.CreateProductRequest{
			Name:     "load-" + r.runID,
			Category: "other",
		})
		if err == nil {
			productID = resp.Product.ID
		}
		return err
	}); err != nil {
		return err
	}

	return r.call("CreateListing", r.seller, func(ctx context.Context) error {
		resp, err := client.CreateListing(ctx, &marketplacev1.CreateListingRequest{
			ProductID:  productID,
			PriceMinor: r.cfg.priceMinor,
			Stock:      int32(r.cfg.stock),
		})
		if err == nil {
			r.listingID = resp.Listing.ID
		}
		return err
	})
}

// runScenario регистрирует нового покупателя и пытается купить публикацию.
// Отказ из-за закончившегося остатка считается штатным исходом.
func (r *runner) runScenario(client marketplacev1.MarketplaceServiceClient, index int) (err error) {
	scenarioStart := time.Now()
	defer func() {
		r.col.record(methodScenario, time.Since(scenarioStart), outcomeOf(err))
	}()

	buyer := fmt.Sprintf("%s-buyer-%s-%d", r.cfg.identityTag, r.runID, index)
	if err := r.call("Register", buyer, func(ctx context.Context) error {
		_, err := client.Register(ctx, &marketplacev1.RegisterRequest{Name: "Load", Surname: "Buyer", Role: "buyer"})
		return err
	}); err != nil {
		return err
	}

	var orderID int64
	err = r.call("CreateOrder", buyer, func(ctx context.Context) error {
		resp, err := client.CreateOrder(ctx, &marketplacev1.CreateOrderRequest{
			Items:          []marketplacev1.LineItem{{ListingID: r.listingID, Qty: int32(r.cfg.qty)}},
			AvailableFunds: r.cfg.priceMinor * int64(r.cfg.qty),
		})
		if err == nil {
			orderID = resp.Order.ID
		}
		return err
	})
	if err != nil {
		return err
	}

	switch r.cfg.mode {
	case modeCreateShip, modeCreateShipReceive:
		if err := r.call("MarkShipped", r.seller, func(ctx context.Context) error {
			_, err := client.MarkShipped(ctx, &marketplacev1.MarkShippedRequest{OrderID: orderID})
			return err
		}); err != nil {
			return err
		}
		if r.cfg.mode == modeCreateShipReceive {
			return r.call("MarkReceived", buyer, func(ctx context.Context) error {
				_, err := client.MarkReceived(ctx, &marketplacev1.MarkReceivedRequest{OrderID: orderID})
				return err
			})
		}
	case modeCreateCancel:
		for _, party := range []string{buyer, r.seller} {
			if err := r.call("RequestCancel", party, func(ctx context.Context) error {
				_, err := client.RequestCancel(ctx, &marketplacev1.RequestCancelRequest{OrderID: orderID})
				return err
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// verifyStock сверяет остаток публикации с суммой заказанных количеств.
func (r *runner) verifyStock(client marketplacev1.MarketplaceServiceClient) (stockReport, error) {
	result := stockReport{ListingID: r.listingID, InitialStock: int32(r.cfg.stock)}

	var listings []*marketplacev1.Listing
	if err := r.call("ListMyListings", r.seller, func(ctx context.Context) error {
		resp, err := client.ListMyListings(ctx, &marketplacev1.ListMyListingsRequest{})
		if err == nil {
			listings = resp.Listings
		}
		return err
	}); err != nil {
		return result, err
	}
	found := false
	for _, listing := range listings {
		if listing.ID == r.listingID {
			result.RemainingStock = listing.Stock
			found = true
		}
	}
	if !found {
		return result, fmt.Errorf("listing %d is missing from seller listings", r.listingID)
	}

	var orders []*marketplacev1.Order
	if err := r.call("ListOrders", r.seller, func(ctx context.Context) error {
		resp, err := client.ListOrders(ctx, &marketplacev1.ListOrdersRequest{})
		if err == nil {
			orders = resp.Orders
		}
		return err
	}); err != nil {
		return result, err
	}
	for _, order := range orders {
		for _, line := range order.Lines {
			if line.ListingID == r.listingID {
				result.OrderedQty += int64(line.Qty)
				result.Orders++
			}
		}
	}

	result.Consistent = result.RemainingStock >= 0 &&
		int64(result.RemainingStock)+result.OrderedQty == int64(result.InitialStock)
	return result, nil
}

func runTarget(cfg config) string {
	if cfg.duration <= 0 {
		return fmt.Sprintf("count:%d", cfg.total)
	}
	if cfg.totalSet {
		return fmt.Sprintf("duration:%s,max-total:%d", cfg.duration, cfg.total)
	}
	return fmt.Sprintf("duration:%s", cfg.duration)
}
