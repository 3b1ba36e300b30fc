package frontend

import (
	"os"
	"sort"
	"sync"
)

type Document struct {
	URI     string
	Version int32
	Text    string
	Result  *Result
}

// Documents holds the latest analysis of every open document. It is safe
// for concurrent use.
type Documents struct {
	mu       sync.RWMutex
	frontend *Frontend
	docs     map[string]*Document
}

func NewDocuments(f *Frontend) *Documents {
	return &Documents{
		frontend: f,
		docs:     make(map[string]*Document),
	}
}

// Update analyses text and stores it as the current state of uri.
func (d *Documents) Update(uri string, version int32, text string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Text:    text,
		Result:  d.frontend.Analyze(text),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs[uri] = doc
	return doc
}

// Load reads path from disk and stores it under path.
func (d *Documents) Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.Update(path, 0, string(content)), nil
}

func (d *Documents) Get(uri string) *Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.docs[uri]
}

func (d *Documents) Remove(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.docs, uri)
}

// URIs returns the stored document keys in order.
func (d *Documents) URIs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	uris := make([]string, 0, len(d.docs))
	for uri := range d.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
