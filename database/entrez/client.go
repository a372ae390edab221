package entrez

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultURL is the base URL of the E-utilities.
const DefaultURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// Client sends requests to the E-utilities.
type Client struct {
	// URL is the base URL that "esearch.fcgi" and "efetch.fcgi" are
	// appended to.
	URL string

	// APIKey, Email and Tool are sent with every request if not empty.
	// NCBI allows more requests per second for clients with an API key.
	APIKey string
	Email  string
	Tool   string

	// Retries is the number of times a request is repeated after a server
	// error or a rate limit response. Backoff is the wait before the first
	// retry; it grows linearly.
	Retries int
	Backoff time.Duration

	HTTP *http.Client
}

// NewClient returns a client for the public NCBI servers.
func NewClient() *Client {
	return &Client{
		URL:     DefaultURL,
		Tool:    "biotite",
		Retries: 2,
		Backoff: time.Second,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Error is an error reported by the E-utilities in a response.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "Entrez error: " + e.Message
}

type searchResult struct {
	Count int      `xml:"Count"`
	IDs   []string `xml:"IdList>Id"`
	Error string   `xml:"ERROR"`
}

// Search returns the UIDs of at most number records in database db that
// match the query.
func (c *Client) Search(ctx context.Context, q Query, db string, number int) ([]string, error) {
	params := url.Values{}
	params.Set("db", db)
	params.Set("term", q.String())
	params.Set("retmax", strconv.Itoa(number))
	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var result searchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("Could not parse the search result: %s", err)
	}
	if result.Error != "" {
		return nil, &Error{result.Error}
	}
	return result.IDs, nil
}

// FetchContent downloads the records with the UIDs given as a single
// document.
func (c *Client) FetchContent(ctx context.Context, uids []string,
	db, retType, retMode string) ([]byte, error) {

	if len(uids) == 0 {
		return nil, fmt.Errorf("No UIDs given.")
	}
	params := url.Values{}
	params.Set("db", db)
	params.Set("id", strings.Join(uids, ","))
	params.Set("rettype", retType)
	params.Set("retmode", retMode)
	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	if msg, ok := fetchError(body); ok {
		return nil, &Error{msg}
	}
	return body, nil
}

// Fetch downloads each record into its own file "<uid>.<suffix>" in dir and
// returns the file paths. Existing files are kept unless overwrite is set.
func (c *Client) Fetch(ctx context.Context, uids []string, dir, suffix,
	db, retType, retMode string, overwrite bool) ([]string, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, len(uids))
	for i, uid := range uids {
		paths[i] = filepath.Join(dir, uid+"."+suffix)
		if !overwrite {
			if _, err := os.Stat(paths[i]); err == nil {
				continue
			}
		}
		body, err := c.FetchContent(ctx, []string{uid}, db, retType, retMode)
		if err != nil {
			return nil, fmt.Errorf("Could not fetch '%s': %w", uid, err)
		}
		if err := os.WriteFile(paths[i], body, 0644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// FetchSingleFile downloads all records into one file. The file is not
// downloaded again if it exists, unless overwrite is set.
func (c *Client) FetchSingleFile(ctx context.Context, uids []string, path,
	db, retType, retMode string, overwrite bool) (string, error) {

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	body, err := c.FetchContent(ctx, uids, db, retType, retMode)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// fetchError recognizes the error documents efetch answers with (sometimes
// with status 200).
func fetchError(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("Error")) {
		return string(trimmed), true
	}
	var doc struct {
		Error string `xml:"ERROR"`
	}
	if bytes.Contains(trimmed, []byte("<ERROR>")) &&
		xml.Unmarshal(trimmed, &doc) == nil && doc.Error != "" {
		return doc.Error, true
	}
	return "", false
}

func (c *Client) get(ctx context.Context, tool string, params url.Values) ([]byte, error) {
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}
	base := c.URL
	if base == "" {
		base = DefaultURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u := base + tool + "?" + params.Encode()

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.Backoff):
			}
		}
		body, retry, err := c.do(ctx, client, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, client *http.Client, u string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retry := resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= 500
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, retry, fmt.Errorf("http status %d: %s", resp.StatusCode, msg)
	}
	return body, false, nil
}
