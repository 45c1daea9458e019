package render

import (
	"html/template"
	"sync"
)

// Container is an addressable region whose inner HTML the loader replaces.
type Container interface {
	ID() string
	SetHTML(markup template.HTML)
	HTML() template.HTML
}

// Resolver looks containers up by id.
type Resolver interface {
	Container(id string) (Container, bool)
}

type Element struct {
	id     string
	markup template.HTML
	writes int
	mu     sync.RWMutex
}

func NewElement(id string) *Element {
	return &Element{id: id}
}

func (e *Element) ID() string {
	return e.id
}

func (e *Element) SetHTML(markup template.HTML) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markup = markup
	e.writes++
}

func (e *Element) HTML() template.HTML {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.markup
}

// Writes counts SetHTML calls.
func (e *Element) Writes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.writes
}

// Document is an in-memory page made of named elements.
type Document struct {
	elements map[string]*Element
	mu       sync.RWMutex
}

func NewDocument(ids ...string) *Document {
	d := &Document{elements: make(map[string]*Element, len(ids))}
	for _, id := range ids {
		d.Add(id)
	}
	return d
}

// Add returns the element for id, creating it when absent.
func (d *Document) Add(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.elements[id]; ok {
		return e
	}
	e := NewElement(id)
	d.elements[id] = e
	return e
}

func (d *Document) Element(id string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.elements[id]
	return e, ok
}

func (d *Document) Container(id string) (Container, bool) {
	if id == "" {
		return nil, false
	}
	e, ok := d.Element(id)
	if !ok {
		return nil, false
	}
	return e, true
}
