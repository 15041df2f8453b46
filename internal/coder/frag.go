// Package coder emits a single C translation unit from the checked,
// scope-resolved ast.File. The emitter builds a tree of named fragments
// and renders it to text only at the end, so tests can address emitted
// pieces by name and a misspelled substitution cannot fail silently;
// internal/pretty reindents the rendered text, not the fragment tree.
package coder

import "strings"

// Frag is either a text leaf or a named group of child fragments. Name is
// used only by Find and FindAll — it has no bearing on rendering.
type Frag struct {
	Name string
	Text string
	Children []*Frag
}

// Leaf returns an unnamed text fragment.
func Leaf(text string) *Frag { return &Frag{Text: text} }

// Group returns a named fragment whose rendered text is its children's,
// concatenated in order.
func Group(name string, children ...*Frag) *Frag {
	return &Frag{Name: name, Children: children}
}

// Append adds children to the end of f's child list and returns f, so
// emission call sites can build a group incrementally.
func (f *Frag) Append(children ...*Frag) *Frag {
	f.Children = append(f.Children, children...)
	return f
}

// Render flattens the fragment tree to its final C source text.
func (f *Frag) Render() string {
	var sb strings.Builder
	f.render(&sb)
	return sb.String()
}

func (f *Frag) render(sb *strings.Builder) {
	if f == nil {
		return
	}
	sb.WriteString(f.Text)
	for _, c := range f.Children {
		c.render(sb)
	}
}

// FindAll returns every descendant (depth-first, including f itself) whose
// Name matches, in rendering order.
func (f *Frag) FindAll(name string) []*Frag {
	if f == nil {
		return nil
	}
	var found []*Frag
	if f.Name == name {
		found = append(found, f)
	}
	for _, c := range f.Children {
		found = append(found, c.FindAll(name)...)
	}
	return found
}

// Find returns the first descendant (depth-first, including f itself) whose
// Name matches, or nil. Used by tests to assert on a named hole's contents
// without string-searching the whole rendered file.
func (f *Frag) Find(name string) *Frag {
	if f == nil {
		return nil
	}
	if f.Name == name {
		return f
	}
	for _, c := range f.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
