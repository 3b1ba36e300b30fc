package frontend

import (
	"errors"
	"os"

	"github.com/dhamidi/cfront/format"
	"github.com/dhamidi/cfront/grammar"
	"github.com/dhamidi/cfront/lr1"
)

// Options selects the grammar and table cache for Load.
type Options struct {
	// GrammarPath is the grammar file. The embedded minic grammar is used
	// when it is empty.
	GrammarPath string

	// Start overrides the grammar's start symbol.
	Start string

	AllowConflicts bool

	// CachePath is a tables snapshot file. It is read when its
	// fingerprint matches the grammar and rewritten otherwise.
	CachePath string
}

// Load reads the grammar named by opts and returns a Frontend over its
// tables, restoring them from the cache when possible.
func Load(opts Options) (*Frontend, error) {
	g, err := LoadGrammar(opts)
	if err != nil {
		return nil, err
	}

	if opts.CachePath != "" {
		if tables, ok := readCache(g, opts.CachePath); ok {
			return New(g, tables), nil
		}
	}

	var buildOpts []lr1.Option
	if opts.AllowConflicts {
		buildOpts = append(buildOpts, lr1.AllowConflicts())
	}
	f, err := Build(g, buildOpts...)
	if err != nil {
		return nil, err
	}

	if opts.CachePath != "" {
		if err := format.WriteSnapshot(opts.CachePath, f.tables.Snapshot(g)); err != nil {
			log.Warningf("%s", err)
		} else {
			log.Infof("cached tables in %s", opts.CachePath)
		}
	}
	return f, nil
}

// LoadGrammar reads the grammar named by opts without building tables.
func LoadGrammar(opts Options) (*grammar.Grammar, error) {
	var grammarOpts []grammar.Option
	if opts.Start != "" {
		grammarOpts = append(grammarOpts, grammar.WithStart(opts.Start))
	}
	if opts.GrammarPath == "" {
		return DefaultGrammar(grammarOpts...)
	}
	return grammar.Load(opts.GrammarPath, grammarOpts...)
}

func readCache(g *grammar.Grammar, path string) (*lr1.Tables, bool) {
	snap, err := format.ReadSnapshot(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warningf("%s", err)
		}
		return nil, false
	}

	tables, err := lr1.Restore(g, snap)
	switch {
	case errors.Is(err, lr1.ErrStaleSnapshot):
		log.Infof("%s is stale, rebuilding tables", path)
		return nil, false
	case err != nil:
		log.Warningf("restore %s: %s", path, err)
		return nil, false
	}

	log.Debugf("restored %d states from %s", tables.NumStates(), path)
	return tables, true
}
