// cmd/bookstore/admin.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/and161185/bookstore/internal/api"
	"github.com/and161185/bookstore/internal/model"
	"github.com/and161185/bookstore/internal/render"
)

// requireAdmin gates the back-office commands client-side; the server
// enforces the role again on every call.
func (a *app) requireAdmin() {
	if !a.sessions.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "please login first")
		os.Exit(1)
	}
	if !a.sessions.HasRole(model.RoleAdmin) {
		fmt.Fprintln(os.Stderr, "admin role required")
		os.Exit(1)
	}
}

func bookFlags(fs *flag.FlagSet, req *api.BookRequest) {
	fs.StringVar(&req.Title, "title", req.Title, "title")
	fs.StringVar(&req.Author, "author", req.Author, "author")
	fs.StringVar(&req.Genre, "genre", req.Genre, "genre")
	fs.StringVar(&req.ISBN, "isbn", req.ISBN, "ISBN")
	fs.Float64Var(&req.Price, "price", req.Price, "price")
	fs.StringVar(&req.Description, "desc", req.Description, "description")
	fs.IntVar(&req.StockQuantity, "stock", req.StockQuantity, "stock quantity")
	fs.StringVar(&req.ImageURL, "image", req.ImageURL, "cover image URL")
}

func (a *app) cmdBookAdd(ctx context.Context, args []string) {
	a.requireAdmin()

	fs := flag.NewFlagSet("book-add", flag.ExitOnError)
	var req api.BookRequest
	bookFlags(fs, &req)
	_ = fs.Parse(args)
	if req.Title == "" || req.Author == "" {
		fmt.Fprintln(os.Stderr, "need -title and -author")
		os.Exit(1)
	}
	if req.Price < 0 || req.StockQuantity < 0 {
		fmt.Fprintln(os.Stderr, "-price and -stock must not be negative")
		os.Exit(1)
	}

	b, err := a.client.CreateBook(ctx, req)
	if err != nil {
		fail(err)
	}
	render.Book(os.Stdout, b)
}

func (a *app) cmdBookEdit(ctx context.Context, args []string) {
	a.requireAdmin()

	fs := flag.NewFlagSet("book-edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "book id")
	var req api.BookRequest
	bookFlags(fs, &req)
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	// start from the current record so unset flags keep their values
	current, err := a.client.GetBook(ctx, *id)
	if err != nil {
		fail(err)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	merged := mergeBookRequest(current, set, req)

	b, err := a.client.UpdateBook(ctx, *id, merged)
	if err != nil {
		fail(err)
	}
	render.Book(os.Stdout, b)
}

// mergeBookRequest overlays the flag values named in set onto the current
// record.
func mergeBookRequest(current model.Book, set map[string]bool, req api.BookRequest) api.BookRequest {
	merged := api.BookRequest{
		Title:         current.Title,
		Author:        current.Author,
		Genre:         current.Genre,
		ISBN:          current.ISBN,
		Price:         current.Price,
		Description:   current.Description,
		StockQuantity: current.StockQuantity,
		ImageURL:      current.ImageURL,
	}
	if set["title"] {
		merged.Title = req.Title
	}
	if set["author"] {
		merged.Author = req.Author
	}
	if set["genre"] {
		merged.Genre = req.Genre
	}
	if set["isbn"] {
		merged.ISBN = req.ISBN
	}
	if set["price"] {
		merged.Price = req.Price
	}
	if set["desc"] {
		merged.Description = req.Description
	}
	if set["stock"] {
		merged.StockQuantity = req.StockQuantity
	}
	if set["image"] {
		merged.ImageURL = req.ImageURL
	}
	return merged
}

func (a *app) cmdBookRemove(ctx context.Context, args []string) {
	a.requireAdmin()

	fs := flag.NewFlagSet("book-rm", flag.ExitOnError)
	id := fs.Int64("id", 0, "book id")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	if err := a.client.DeleteBook(ctx, *id); err != nil {
		fail(err)
	}
	fmt.Println("book deleted")
}

func (a *app) cmdAdminOrders(ctx context.Context, args []string) {
	a.requireAdmin()

	fs := flag.NewFlagSet("admin-orders", flag.ExitOnError)
	page := fs.Int("page", 0, "zero-based page index")
	_ = fs.Parse(args)

	out, err := a.client.AllOrders(ctx, *page, a.cfg.Catalog.PageSize)
	if err != nil {
		fail(err)
	}
	render.Orders(os.Stdout, out, *page)
}

func (a *app) cmdOrderStatus(ctx context.Context, args []string) {
	a.requireAdmin()

	fs := flag.NewFlagSet("order-status", flag.ExitOnError)
	id := fs.Int64("id", 0, "order id")
	status := fs.String("status", "", "PENDING|CONFIRMED|SHIPPED|DELIVERED|CANCELLED")
	_ = fs.Parse(args)
	if *id == 0 || *status == "" {
		fmt.Fprintln(os.Stderr, "need -id and -status")
		os.Exit(1)
	}
	st := model.OrderStatus(*status)
	if !model.ValidOrderStatus(st) {
		fmt.Fprintln(os.Stderr, "unknown status")
		os.Exit(1)
	}

	order, err := a.client.UpdateOrderStatus(ctx, *id, st)
	if err != nil {
		fail(err)
	}
	render.Order(os.Stdout, order)
}
