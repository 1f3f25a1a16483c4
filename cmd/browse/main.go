// Command browse is a line-oriented terminal client for the catalog
// API. Typing a bare line searches as you type would in the SPA
// (debounced on the server-facing side by the Browser); commands manage
// a session-local cart.
//
// Commands:
//
//	/add <id>     add a listing from the last result page to the cart
//	/rm <id>      remove a listing from the cart
//	/cart         show cart contents and total
//	/quit         exit
//
// Anything else is treated as a search term; an empty line browses the
// full catalog.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tbourn/go-store-backend/internal/client"
	"github.com/tbourn/go-store-backend/internal/domain"
)

func main() {
	baseURL := flag.String("url", "http://localhost:4000", "base URL of the catalog API")
	pageSize := flag.Int("limit", 20, "page size for search results")
	flag.Parse()

	c := client.New(*baseURL, nil)
	if err := c.Health(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach %s: %v\n", *baseURL, err)
		os.Exit(1)
	}

	var (
		mu       sync.Mutex
		lastPage *client.Page
	)

	b := client.NewBrowser(c, 150*time.Millisecond, *pageSize)
	b.OnResults = func(term string, page *client.Page) {
		mu.Lock()
		lastPage = page
		mu.Unlock()
		printPage(term, page)
	}
	b.OnError = func(term string, err error) {
		fmt.Fprintf(os.Stderr, "search %q failed: %v\n", term, err)
	}

	cart := client.NewCart()

	// Initial unfiltered page.
	b.SearchNow(context.Background(), "")

	sc := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "/quit", line == "/q":
			return
		case strings.HasPrefix(line, "/add "):
			id, err := strconv.ParseInt(strings.TrimSpace(line[5:]), 10, 64)
			if err != nil {
				fmt.Println("usage: /add <id>")
				break
			}
			mu.Lock()
			g, found := findGame(lastPage, id)
			mu.Unlock()
			if !found {
				fmt.Println("id not in the current results")
				break
			}
			if cart.Add(g) {
				fmt.Printf("added %q\n", g.Title)
			} else {
				fmt.Println("already in cart")
			}
		case strings.HasPrefix(line, "/rm "):
			id, err := strconv.ParseInt(strings.TrimSpace(line[4:]), 10, 64)
			if err != nil {
				fmt.Println("usage: /rm <id>")
				break
			}
			if cart.Remove(id) {
				fmt.Println("removed")
			} else {
				fmt.Println("not in cart")
			}
		case line == "/cart":
			printCart(cart)
		default:
			b.Search(line)
		}
		fmt.Print("> ")
	}
}

func findGame(p *client.Page, id int64) (domain.Game, bool) {
	if p == nil {
		return domain.Game{}, false
	}
	for _, g := range p.Items {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Game{}, false
}

func printPage(term string, p *client.Page) {
	if term == "" {
		fmt.Printf("\ncatalog (%d total):\n", p.Total)
	} else {
		fmt.Printf("\nresults for %q:\n", term)
	}
	for _, g := range p.Items {
		extra := ""
		if g.Platform != nil {
			extra = " [" + *g.Platform + "]"
		}
		fmt.Printf("  %3d  %-40s %8.2f %s%s\n",
			g.ID, g.Title, float64(g.PriceCents)/100, g.Currency, extra)
	}
}

func printCart(cart *client.Cart) {
	items := cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, g := range items {
		fmt.Printf("  %3d  %-40s %8.2f %s\n",
			g.ID, g.Title, float64(g.PriceCents)/100, g.Currency)
	}
	_, _, mixed := cart.TotalCents()
	suffix := ""
	if mixed {
		suffix = " (mixed currencies, summed without conversion)"
	}
	fmt.Printf("total: %s%s\n", cart.FormattedTotal(), suffix)
}
