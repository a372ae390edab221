package cmd

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsDir string

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootPage = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childPage = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// child with children
const childParentPage = `---
layout: default
title: %s
parent: %s
nav_order: %d
has_children: true
---
`

// grandchildren
const grandchildPage = `---
layout: default
title: %s
parent: %s
grand_parent: %s
nav_order: %d
---
`

// meta is the position of a command doc page in the navigation
type meta struct {
	title       string
	navOrder    int
	hasChildren bool
	parent      string
	grandParent string
	depth       int
}

// docsCmd writes the Markdown documentation of all commands
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Write Markdown pages for every command",
	Long: `Write Markdown pages for every command.

The pages carry the front matter of the just-the-docs Jekyll theme. Pages
whose content did not change are not rewritten, so their modification times
are kept.`,
	Args:    cobra.NoArgs,
	Example: "  biotite docs --dir ./docs",
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := makeDocs(cmd.Root(), docsDir)
		if err != nil {
			return err
		}
		for _, w := range written {
			fmt.Fprintln(cmd.OutOrStdout(), w)
		}
		return nil
	},
}

// docBase is the file name (without ".md") cobra uses for a command page.
func docBase(c *cobra.Command) string {
	return strings.ReplaceAll(c.CommandPath(), " ", "_")
}

// navigation returns the page positions of root and its documented
// descendants, keyed by docBase.
func navigation(root *cobra.Command) map[string]meta {
	metas := make(map[string]meta)
	var walk func(c *cobra.Command, order, depth int)
	walk = func(c *cobra.Command, order, depth int) {
		// the generation date would change every page
		c.DisableAutoGenTag = true
		m := meta{title: c.Name(), navOrder: order, depth: depth}
		if p := c.Parent(); p != nil {
			m.parent = p.Name()
			if gp := p.Parent(); gp != nil {
				m.grandParent = gp.Name()
			}
		}
		i := 0
		for _, child := range c.Commands() {
			if !child.IsAvailableCommand() || child.IsAdditionalHelpTopicCommand() {
				continue
			}
			m.hasChildren = true
			walk(child, i, depth+1)
			i++
		}
		metas[docBase(c)] = m
	}
	walk(root, 0, 0)
	return metas
}

// makeDocs generates the pages into a temporary directory and copies those
// that differ (by MD5) from the pages in dir. The written paths are
// returned.
func makeDocs(root *cobra.Command, dir string) ([]string, error) {
	tmp, err := os.MkdirTemp("", "biotite-docs")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	metas := navigation(root)
	rootBase := docBase(root)

	filePrepender := func(filename string) string {
		name := filepath.Base(filename)
		m, ok := metas[strings.TrimSuffix(name, path.Ext(name))]
		if !ok {
			return ""
		}
		switch {
		case m.depth == 0:
			return fmt.Sprintf(rootPage, m.title, m.navOrder)
		case m.depth == 1 && m.hasChildren:
			return fmt.Sprintf(childParentPage, m.title, m.parent, m.navOrder)
		case m.depth == 1:
			return fmt.Sprintf(childPage, m.title, m.parent, m.navOrder)
		}
		return fmt.Sprintf(grandchildPage, m.title, m.parent, m.grandParent,
			m.navOrder)
	}
	linkHandler := func(filename string) string {
		base := strings.TrimSuffix(filename, path.Ext(filename))
		if base == rootBase {
			return "/"
		}
		return base
	}
	if err := doc.GenMarkdownTreeCustom(root, tmp, filePrepender, linkHandler); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(tmp)
	if err != nil {
		return nil, err
	}
	var written []string
	for _, e := range entries {
		content, err := os.ReadFile(filepath.Join(tmp, e.Name()))
		if err != nil {
			return nil, err
		}
		dest := filepath.Join(dir, e.Name())
		if unchanged(dest, content) {
			continue
		}
		if err := os.WriteFile(dest, content, 0644); err != nil {
			return nil, err
		}
		written = append(written, dest)
	}
	return written, nil
}

// unchanged reports whether the file at path has the given content.
func unchanged(path string, content []byte) bool {
	old, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	a, b := md5.Sum(old), md5.Sum(content)
	return bytes.Equal(a[:], b[:])
}

func init() {
	docsCmd.Flags().StringVarP(&docsDir, "dir", "d", "docs",
		"directory of the Markdown pages")

	RootCmd.AddCommand(docsCmd)
}
