// Package txlist loads wallet transaction lists exported by the host wallet.
package txlist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wombat6/stacktrack/internal/model"
)

// Parser converts a transaction list file into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// Wallet is one loaded transaction list.
type Wallet struct {
	Name         string // file name without extension
	Path         string
	Transactions []model.Transaction
}

// FileInfo describes a transaction list file in a wallets directory.
type FileInfo struct {
	Name   string
	Path   string
	Format string
	Size   int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&JSONParser{})
	r.Register(&CSVParser{})
	return r
}

// FormatOf guesses the parser format from a file extension.
func FormatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Load reads one transaction list. An empty format is taken from the file
// extension.
func (r *Registry) Load(path, format string) (Wallet, error) {
	if format == "" {
		format = FormatOf(path)
	}
	p := r.Get(format)
	if p == nil {
		return Wallet{}, fmt.Errorf("no parser for format %q (%s)", format, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Wallet{}, fmt.Errorf("opening transaction list: %w", err)
	}
	defer f.Close()

	txs, err := p.Parse(f)
	if err != nil {
		return Wallet{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	base := filepath.Base(path)
	return Wallet{
		Name:         strings.TrimSuffix(base, filepath.Ext(base)),
		Path:         path,
		Transactions: txs,
	}, nil
}

// LoadAll reads every path concurrently. Results keep the order of paths.
// The first failure cancels the rest.
func (r *Registry) LoadAll(ctx context.Context, paths []string) ([]Wallet, error) {
	wallets := make([]Wallet, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := r.Load(path, "")
			if err != nil {
				return err
			}
			wallets[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return wallets, nil
}

// Scan returns the transaction list files in dir that some registered parser
// can read. A missing directory yields no files.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading wallets dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format := FormatOf(e.Name())
		if r.Get(format) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Format: format,
			Size:   info.Size(),
		})
	}
	return files, nil
}

// Merge concatenates the transactions of all wallets.
func Merge(wallets []Wallet) []model.Transaction {
	var all []model.Transaction
	for _, w := range wallets {
		all = append(all, w.Transactions...)
	}
	return all
}
