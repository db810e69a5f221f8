// Package render formats listings, the cart and orders as plain text for the
// CLI. Output is deterministic and covered by golden files.
package render

import (
	"fmt"
	"io"

	"github.com/and161185/bookstore/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// Books writes one catalog page as a table with a paging footer.
func Books(w io.Writer, page model.BookPage, pageIndex int) {
	if len(page.Books) == 0 {
		fmt.Fprintln(w, "no books found")
		return
	}
	fmt.Fprintf(w, "%-6s%-32s%-22s%-10s%s\n", "ID", "TITLE", "AUTHOR", "PRICE", "STOCK")
	for _, b := range page.Books {
		fmt.Fprintf(w, "%-6d%-32s%-22s%-10.2f%d\n", b.ID, b.Title, b.Author, b.Price, b.StockQuantity)
	}
	fmt.Fprintf(w, "page %d of %d (%d books)\n", pageIndex+1, page.TotalPages, page.TotalElements)
}

// Book writes a single book in full.
func Book(w io.Writer, b model.Book) {
	fmt.Fprintf(w, "id:     %d\n", b.ID)
	fmt.Fprintf(w, "title:  %s\n", b.Title)
	fmt.Fprintf(w, "author: %s\n", b.Author)
	if b.Genre != "" {
		fmt.Fprintf(w, "genre:  %s\n", b.Genre)
	}
	if b.ISBN != "" {
		fmt.Fprintf(w, "isbn:   %s\n", b.ISBN)
	}
	fmt.Fprintf(w, "price:  %.2f\n", b.Price)
	fmt.Fprintf(w, "stock:  %d\n", b.StockQuantity)
	if b.Description != "" {
		fmt.Fprintf(w, "\n%s\n", b.Description)
	}
}

// Cart writes the cart lines with a count/total footer.
func Cart(w io.Writer, lines []model.CartLine) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "your cart is empty")
		return
	}
	fmt.Fprintf(w, "%-6s%-6s%-32s%-10s%s\n", "ID", "QTY", "TITLE", "UNIT", "SUBTOTAL")
	count := 0
	var total float64
	for _, l := range lines {
		fmt.Fprintf(w, "%-6d%-6d%-32s%-10.2f%.2f\n", l.BookID, l.Quantity, l.Title, l.UnitPrice, l.Subtotal())
		count += l.Quantity
		total += l.Subtotal()
	}
	fmt.Fprintf(w, "total: %.2f (%d items)\n", total, count)
}

// Orders writes one page of order history.
func Orders(w io.Writer, page model.OrderPage, pageIndex int) {
	if len(page.Orders) == 0 {
		fmt.Fprintln(w, "no orders yet")
		return
	}
	fmt.Fprintf(w, "%-6s%-18s%-12s%s\n", "ID", "DATE", "STATUS", "TOTAL")
	for _, o := range page.Orders {
		fmt.Fprintf(w, "%-6d%-18s%-12s%.2f\n", o.ID, o.CreatedAt.Format(timeLayout), o.Status, o.TotalAmount)
	}
	fmt.Fprintf(w, "page %d of %d (%d orders)\n", pageIndex+1, page.TotalPages, page.TotalElements)
}

// Order writes a single order with its lines.
func Order(w io.Writer, o model.Order) {
	fmt.Fprintf(w, "order %d  %s  %s\n", o.ID, o.Status, o.CreatedAt.Format(timeLayout))
	for _, it := range o.Items {
		fmt.Fprintf(w, "  %d x %s (%s)  @%.2f  = %.2f\n", it.Quantity, it.BookTitle, it.BookAuthor, it.UnitPrice, it.Subtotal)
	}
	fmt.Fprintf(w, "total: %.2f\n", o.TotalAmount)
}
