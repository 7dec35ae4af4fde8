package model

import (
	"fmt"
	"sort"
)

// Graph owns every reflected type and standalone object of one host dump.
type Graph struct {
	Classes []*Class
	Structs []*Struct
	Enums   []*Enum
	Assets  []*Object

	classes map[string]*Class
	structs map[string]*Struct
	enums   map[string]*Enum
	assets  map[string]*Object
}

func NewGraph() *Graph {
	return &Graph{
		classes: make(map[string]*Class),
		structs: make(map[string]*Struct),
		enums:   make(map[string]*Enum),
		assets:  make(map[string]*Object),
	}
}

func (g *Graph) AddClass(c *Class) (*Class, error) {
	if _, ok := g.classes[c.Name]; ok {
		return nil, fmt.Errorf("duplicate class %q", c.Name)
	}
	g.classes[c.Name] = c
	g.Classes = append(g.Classes, c)
	return c, nil
}

func (g *Graph) AddStruct(s *Struct) (*Struct, error) {
	if _, ok := g.structs[s.Name]; ok {
		return nil, fmt.Errorf("duplicate struct %q", s.Name)
	}
	g.structs[s.Name] = s
	g.Structs = append(g.Structs, s)
	return s, nil
}

func (g *Graph) AddEnum(e *Enum) (*Enum, error) {
	if _, ok := g.enums[e.Name]; ok {
		return nil, fmt.Errorf("duplicate enum %q", e.Name)
	}
	g.enums[e.Name] = e
	g.Enums = append(g.Enums, e)
	return e, nil
}

func (g *Graph) AddAsset(o *Object) (*Object, error) {
	path := PathName(o)
	if _, ok := g.assets[path]; ok {
		return nil, fmt.Errorf("duplicate asset %q", path)
	}
	g.assets[path] = o
	g.Assets = append(g.Assets, o)
	return o, nil
}

func (g *Graph) Class(name string) *Class   { return g.classes[name] }
func (g *Graph) Struct(name string) *Struct { return g.structs[name] }
func (g *Graph) Enum(name string) *Enum     { return g.enums[name] }

// Asset looks up a standalone object by its full path.
func (g *Graph) Asset(path string) *Object { return g.assets[path] }

// GeneratedClasses returns the generated classes ordered so that every class
// follows its generated ancestors; ties are broken by name.
func (g *Graph) GeneratedClasses() []*Class {
	var out []*Class
	for _, c := range g.Classes {
		if c.Generated() {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := depth(out[i]), depth(out[j])
		if di != dj {
			return di < dj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// UserStructs returns the user-defined structs sorted by name.
func (g *Graph) UserStructs() []*Struct {
	var out []*Struct
	for _, s := range g.Structs {
		if s.UserDefined {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func depth(c *Class) int {
	d := 0
	for s := c.Super; s != nil; s = s.Super {
		d++
	}
	return d
}
