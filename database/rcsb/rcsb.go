// Package rcsb downloads structure files from the RCSB Protein Data Bank.
package rcsb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultURL is the download location of the RCSB.
const DefaultURL = "https://files.rcsb.org/download/"

// Formats that can be downloaded.
const (
	FormatPDB = "pdb"
	FormatCIF = "cif"
)

var validID = regexp.MustCompile(`^[0-9][A-Za-z0-9]{3}$`)

// Client downloads files from the RCSB.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient returns a client for the public RCSB servers.
func NewClient() *Client {
	return &Client{URL: DefaultURL, HTTP: http.DefaultClient}
}

// Fetch downloads the entries with the PDB IDs given in the given format
// ("pdb" or "cif") into dir and returns the file paths, named
// "<id>.<format>" with a lower case ID. Existing files are kept unless
// overwrite is set.
func (c *Client) Fetch(ctx context.Context, ids []string, format, dir string,
	overwrite bool) ([]string, error) {

	if format != FormatPDB && format != FormatCIF {
		return nil, fmt.Errorf("Format '%s' is not supported.", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, len(ids))
	for i, id := range ids {
		if !validID.MatchString(id) {
			return nil, fmt.Errorf("'%s' is not a valid PDB ID.", id)
		}
		id = strings.ToLower(id)
		paths[i] = filepath.Join(dir, id+"."+format)
		if !overwrite {
			if _, err := os.Stat(paths[i]); err == nil {
				continue
			}
		}
		if err := c.download(ctx, id+"."+format, paths[i]); err != nil {
			return nil, fmt.Errorf("Could not fetch '%s': %s", id, err)
		}
	}
	return paths, nil
}

func (c *Client) download(ctx context.Context, name, dest string) error {
	base := c.URL
	if base == "" {
		base = DefaultURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+name, nil)
	if err != nil {
		return err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("entry not found (%s)", base+name)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, body, 0644)
}
