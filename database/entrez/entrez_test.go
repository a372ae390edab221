package entrez

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestQuery(t *testing.T) {
	lexa, err := NewSimpleQuery("lexA", "Gene Name")
	if err != nil {
		t.Fatal(err)
	}
	coli, err := NewSimpleQuery("Escherichia coli", "Organism")
	if err != nil {
		t.Fatal(err)
	}
	plain, err := NewSimpleQuery("repressor", "")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		q    Query
		want string
	}{
		{lexa, "lexA[Gene Name]"},
		{coli, `"Escherichia coli"[Organism]`},
		{plain, "repressor"},
		{And(lexa, coli), `(lexA[Gene Name]) AND ("Escherichia coli"[Organism])`},
		{Not(Or(lexa, plain), coli), `((lexA[Gene Name]) OR (repressor)) ` +
			`NOT ("Escherichia coli"[Organism])`},
	}
	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("Query is %s, want %s", got, tt.want)
		}
	}

	bad := []struct{ term, field string }{
		{"lexA", "Gene"},
		{"lex[A]", "Gene Name"},
		{"  ", ""},
	}
	for _, b := range bad {
		if _, err := NewSimpleQuery(b.term, b.field); err == nil {
			t.Errorf("Expected an error for %q in %q.", b.term, b.field)
		}
	}
}

const searchResponse = `<?xml version="1.0" encoding="UTF-8" ?>
<!DOCTYPE eSearchResult PUBLIC "-//NLM//DTD esearch 20060628//EN" "https://eutils.ncbi.nlm.nih.gov/eutils/dtd/20060628/esearch.dtd">
<eSearchResult><Count>2</Count><RetMax>2</RetMax><RetStart>0</RetStart>
<IdList>
<Id>1360035651</Id>
<Id>1347012573</Id>
</IdList>
<TranslationSet/><QueryTranslation>lexA[Gene Name]</QueryTranslation>
</eSearchResult>
`

func testServer(t *testing.T) (*Client, *int32) {
	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("tool") != "biotite-test" || q.Get("api_key") != "key" {
				http.Error(w, "missing parameters", http.StatusBadRequest)
				return
			}
			switch r.URL.Path {
			case "/esearch.fcgi":
				if q.Get("term") == "bad[Gene Name]" {
					fmt.Fprint(w, "<eSearchResult><ERROR>Invalid query"+
						"</ERROR></eSearchResult>")
					return
				}
				fmt.Fprint(w, searchResponse)
			case "/efetch.fcgi":
				atomic.AddInt32(&fetches, 1)
				if q.Get("id") == "0" {
					fmt.Fprint(w, "Error: ID list is empty!")
					return
				}
				for _, id := range strings.Split(q.Get("id"), ",") {
					fmt.Fprintf(w, ">%s %s\nMKALTARQQE\n", id, q.Get("rettype"))
				}
			default:
				http.NotFound(w, r)
			}
		}))
	t.Cleanup(srv.Close)

	c := NewClient()
	c.URL = srv.URL
	c.Tool = "biotite-test"
	c.APIKey = "key"
	c.Backoff = time.Millisecond
	return c, &fetches
}

func TestSearch(t *testing.T) {
	c, _ := testServer(t)
	q, _ := NewSimpleQuery("lexA", "Gene Name")
	ids, err := c.Search(context.Background(), q, "protein", 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []string{"1360035651", "1347012573"}) {
		t.Fatalf("Search returned %v", ids)
	}

	bad, _ := NewSimpleQuery("bad", "Gene Name")
	_, err = c.Search(context.Background(), bad, "protein", 10)
	var entrezErr *Error
	if !errors.As(err, &entrezErr) || entrezErr.Message != "Invalid query" {
		t.Fatalf("Expected an Entrez error, got %v.", err)
	}
}

func TestFetch(t *testing.T) {
	c, fetches := testServer(t)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "records")

	paths, err := c.Fetch(ctx, []string{"1", "2"}, dir, "fa", "protein",
		"fasta", "text", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[1]) != "2.fa" {
		t.Fatalf("Fetch returned %v", paths)
	}
	content, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != ">1 fasta\nMKALTARQQE\n" {
		t.Fatalf("Unexpected content %q", content)
	}

	// Existing files are not downloaded again.
	if _, err := c.Fetch(ctx, []string{"1", "2"}, dir, "fa", "protein",
		"fasta", "text", false); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(fetches); n != 2 {
		t.Fatalf("Expected 2 downloads, got %d.", n)
	}
	if _, err := c.Fetch(ctx, []string{"1"}, dir, "fa", "protein",
		"fasta", "text", true); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(fetches); n != 3 {
		t.Fatalf("Expected 3 downloads, got %d.", n)
	}

	single := filepath.Join(dir, "all.gp")
	if _, err := c.FetchSingleFile(ctx, []string{"1", "2"}, single,
		"protein", "gp", "text", false); err != nil {
		t.Fatal(err)
	}
	content, _ = os.ReadFile(single)
	if string(content) != ">1 gp\nMKALTARQQE\n>2 gp\nMKALTARQQE\n" {
		t.Fatalf("Unexpected content %q", content)
	}

	_, err = c.FetchContent(ctx, []string{"0"}, "protein", "gp", "text")
	var entrezErr *Error
	if !errors.As(err, &entrezErr) {
		t.Fatalf("Expected an Entrez error, got %v.", err)
	}
	if _, err := c.FetchContent(ctx, nil, "protein", "gp", "text"); err == nil {
		t.Fatal("Expected an error for an empty UID list.")
	}
}

func TestRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, "ok")
		}))
	defer srv.Close()

	c := NewClient()
	c.URL = srv.URL
	c.Backoff = time.Millisecond
	body, err := c.FetchContent(context.Background(), []string{"1"},
		"protein", "gp", "text")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "ok" || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("Got %q after %d calls.", body, calls)
	}

	c.Retries = 0
	atomic.StoreInt32(&calls, 0)
	if _, err := c.FetchContent(context.Background(), []string{"1"},
		"protein", "gp", "text"); err == nil {
		t.Fatal("Expected an error without retries.")
	}
}
