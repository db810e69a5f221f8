// Command bookstore is a CLI storefront client for the bookstore service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/and161185/bookstore/internal/api"
	"github.com/and161185/bookstore/internal/cart"
	"github.com/and161185/bookstore/internal/catalog"
	"github.com/and161185/bookstore/internal/checkout"
	"github.com/and161185/bookstore/internal/config"
	"github.com/and161185/bookstore/internal/errs"
	"github.com/and161185/bookstore/internal/model"
	"github.com/and161185/bookstore/internal/render"
	"github.com/and161185/bookstore/internal/session"
	"github.com/and161185/bookstore/internal/statefile"
)

func usage() {
	fmt.Fprintf(os.Stderr, `bookstore CLI
Usage:
  bookstore [-server URL] [-state DIR] [-v] <cmd> [args]

Commands:
  version
  register     -name <n> -email <e> -password <p> [-role CUSTOMER|ADMIN]
  login        -email <e> -password <p>
  logout
  whoami
  browse       [-search <text> | -genre <g>] [-page <n>]
  book         -id <id>
  cart
  cart-add     -id <id> [-qty <n>]
  cart-set     -id <id> -qty <n>
  cart-rm      -id <id>
  cart-clear
  checkout
  orders       [-page <n>]
  book-add     -title -author -price -stock [...]        (admin)
  book-edit    -id [fields to change]                    (admin)
  book-rm      -id <id>                                  (admin)
  admin-orders [-page <n>]                               (admin)
  order-status -id <id> -status <s>                      (admin)
`)
	os.Exit(2)
}

var (
	version   = "dev"
	buildDate = "unknown"
)

// app bundles everything a subcommand needs.
type app struct {
	cfg      *config.Config
	client   *api.Client
	carts    *cart.Store
	sessions *session.Store
	log      *zap.Logger
}

// main parses global flags, wires the stores and dispatches subcommands.
func main() {
	server := flag.String("server", "", "backend base URL (overrides config)")
	stateDir := flag.String("state", "", "state directory (default: ~/.config/bookstore)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	dir := statefile.DefaultDir()
	if *stateDir != "" {
		dir = statefile.NewDir(*stateDir)
	}

	cfg, err := config.Load(dir.Path())
	if err != nil {
		fail(err)
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
	}

	sessions := session.NewStore(dir, logger)
	carts := cart.NewStore(dir, logger)

	client, err := api.New(cfg.Server.BaseURL, cfg.Server.Timeout.Std(), sessions.Token, logger)
	if err != nil {
		fail(err)
	}

	a := &app{cfg: cfg, client: client, carts: carts, sessions: sessions, log: logger}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout.Std())
	defer cancel()

	switch cmd {
	case "version":
		fmt.Printf("bookstore %s (%s)\n", version, buildDate)
	case "register":
		a.cmdRegister(ctx, args)
	case "login":
		a.cmdLogin(ctx, args)
	case "logout":
		a.cmdLogout()
	case "whoami":
		a.cmdWhoami()
	case "browse":
		a.cmdBrowse(ctx, args)
	case "book":
		a.cmdBook(ctx, args)
	case "cart":
		render.Cart(os.Stdout, a.carts.Lines())
	case "cart-add":
		a.cmdCartAdd(ctx, args)
	case "cart-set":
		a.cmdCartSet(args)
	case "cart-rm":
		a.cmdCartRemove(args)
	case "cart-clear":
		a.cmdCartClear()
	case "checkout":
		a.cmdCheckout(ctx)
	case "orders":
		a.cmdOrders(ctx, args)
	case "book-add":
		a.cmdBookAdd(ctx, args)
	case "book-edit":
		a.cmdBookEdit(ctx, args)
	case "book-rm":
		a.cmdBookRemove(ctx, args)
	case "admin-orders":
		a.cmdAdminOrders(ctx, args)
	case "order-status":
		a.cmdOrderStatus(ctx, args)
	default:
		usage()
	}
}

// ---- auth ----

func (a *app) cmdRegister(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (min 6 chars)")
	role := fs.String("role", string(model.RoleCustomer), "account role")
	_ = fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "need -name, -email and -password")
		os.Exit(1)
	}
	r := model.Role(*role)
	if !r.Valid() {
		fmt.Fprintln(os.Stderr, "role must be CUSTOMER or ADMIN")
		os.Exit(1)
	}

	id, err := a.client.Register(ctx, api.RegisterRequest{
		Name: *name, Email: *email, Password: *password, Role: r,
	})
	if err != nil {
		fail(err)
	}
	if err := a.sessions.Login(id); err != nil {
		fail(err)
	}
	fmt.Printf("welcome, %s (%s)\n", id.DisplayName, id.Role)
}

func (a *app) cmdLogin(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "need -email and -password")
		os.Exit(1)
	}

	id, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		fail(err)
	}
	if err := a.sessions.Login(id); err != nil {
		fail(err)
	}
	fmt.Printf("welcome back, %s (%s)\n", id.DisplayName, id.Role)
}

func (a *app) cmdLogout() {
	if err := a.sessions.Logout(); err != nil {
		fail(err)
	}
	fmt.Println("logged out")
}

func (a *app) cmdWhoami() {
	id, ok := a.sessions.Current()
	if !ok {
		fmt.Println("guest")
		return
	}
	fmt.Printf("%s <%s> role=%s\n", id.DisplayName, id.Email, id.Role)
}

// ---- catalog ----

func (a *app) cmdBrowse(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	search := fs.String("search", "", "free-text search")
	genre := fs.String("genre", "", "genre filter ('All' clears)")
	page := fs.Int("page", 0, "zero-based page index")
	_ = fs.Parse(args)
	if *search != "" && *genre != "" {
		fmt.Fprintln(os.Stderr, "-search and -genre are mutually exclusive")
		os.Exit(1)
	}

	ctrl := catalog.NewController(a.client, a.cfg.Catalog.PageSize, a.log)

	var err error
	switch {
	case *search != "":
		_, err = ctrl.Search(ctx, *search)
	case *genre != "":
		_, err = ctrl.SelectGenre(ctx, *genre)
	default:
		_, err = ctrl.Refresh(ctx)
	}
	if err != nil {
		fail(err)
	}
	if *page > 0 {
		if _, err := ctrl.GoToPage(ctx, *page); err != nil {
			fail(err)
		}
	}

	result, _ := ctrl.Result()
	_, _, pageIndex := ctrl.Query()
	render.Books(os.Stdout, result, pageIndex)
}

func (a *app) cmdBook(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	id := fs.Int64("id", 0, "book id")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	b, err := a.client.GetBook(ctx, *id)
	if err != nil {
		fail(err)
	}
	render.Book(os.Stdout, b)
}

// ---- cart ----

func (a *app) cmdCartAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
	id := fs.Int64("id", 0, "book id")
	qty := fs.Int("qty", 1, "quantity")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}
	if *qty < 1 {
		fmt.Fprintln(os.Stderr, "-qty must be at least 1")
		os.Exit(1)
	}

	b, err := a.client.GetBook(ctx, *id)
	if err != nil {
		fail(err)
	}

	outcome, err := a.carts.Add(b, *qty)
	if errors.Is(err, errs.ErrOutOfStock) {
		fmt.Fprintf(os.Stderr, "not enough stock for %q (%d available)\n", b.Title, b.StockQuantity)
		os.Exit(1)
	}
	if err != nil {
		fail(err)
	}
	switch outcome {
	case cart.LineAdded:
		fmt.Printf("%q added to cart\n", b.Title)
	case cart.LineUpdated:
		fmt.Println("cart updated")
	}
	fmt.Printf("%d items, total %.2f\n", a.carts.Count(), a.carts.Total())
}

func (a *app) cmdCartSet(args []string) {
	fs := flag.NewFlagSet("cart-set", flag.ExitOnError)
	id := fs.Int64("id", 0, "book id")
	qty := fs.Int("qty", -1, "new quantity (0 removes)")
	_ = fs.Parse(args)
	if *id == 0 || *qty < 0 {
		fmt.Fprintln(os.Stderr, "need -id and -qty")
		os.Exit(1)
	}

	line, ok := a.carts.Line(*id)
	if !ok {
		fmt.Fprintln(os.Stderr, "book is not in the cart")
		os.Exit(1)
	}
	// clamp the way the quantity control does; the store itself takes the
	// value as given
	n := *qty
	if n > line.StockCeiling {
		n = line.StockCeiling
		fmt.Fprintf(os.Stderr, "only %d in stock, setting quantity to %d\n", line.StockCeiling, n)
	}
	if err := a.carts.SetQuantity(*id, n); err != nil {
		fail(err)
	}
	render.Cart(os.Stdout, a.carts.Lines())
}

func (a *app) cmdCartRemove(args []string) {
	fs := flag.NewFlagSet("cart-rm", flag.ExitOnError)
	id := fs.Int64("id", 0, "book id")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}
	if err := a.carts.Remove(*id); err != nil {
		fail(err)
	}
	fmt.Println("item removed from cart")
}

func (a *app) cmdCartClear() {
	if err := a.carts.Clear(); err != nil {
		fail(err)
	}
	fmt.Println("cart cleared")
}

// ---- checkout & orders ----

func (a *app) cmdCheckout(ctx context.Context) {
	if !a.sessions.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "please login first: bookstore login -email ... -password ...")
		os.Exit(1)
	}

	orch := checkout.NewOrchestrator(a.carts, a.sessions, a.client, a.log)
	order, err := orch.PlaceOrder(ctx)
	if errors.Is(err, errs.ErrEmptyCart) {
		fmt.Fprintln(os.Stderr, "your cart is empty")
		os.Exit(1)
	}
	if err != nil {
		var re *api.RemoteError
		if errors.As(err, &re) && re.Message != "" {
			fmt.Fprintln(os.Stderr, re.Message)
		} else {
			fmt.Fprintln(os.Stderr, "Failed to place order")
			a.log.Debug("checkout failed", zap.Error(err))
		}
		os.Exit(1)
	}

	fmt.Println("order placed successfully!")
	render.Order(os.Stdout, order)
	fmt.Println("see your history with: bookstore orders")
}

func (a *app) cmdOrders(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	page := fs.Int("page", 0, "zero-based page index")
	_ = fs.Parse(args)

	if !a.sessions.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "please login first")
		os.Exit(1)
	}

	out, err := a.client.MyOrders(ctx, *page, a.cfg.Catalog.PageSize)
	if err != nil {
		fail(err)
	}
	render.Orders(os.Stdout, out, *page)
}

// ---- helpers ----

func fail(err error) {
	var re *api.RemoteError
	if errors.As(err, &re) {
		fmt.Fprintln(os.Stderr, re.Error())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
