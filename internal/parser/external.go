package parser

import (
	"fmt"

	"github.com/cmmoran/nativizer/internal/model"
)

// refIndex maps full object paths onto the nodes they name. Every type and
// object of the graph is registered once its outer chain is known.
type refIndex struct {
	nodes map[string]model.Node
}

func newRefIndex() *refIndex {
	return &refIndex{nodes: make(map[string]model.Node)}
}

func (ix *refIndex) add(n model.Node) error {
	path := model.PathName(n)
	if _, ok := ix.nodes[path]; ok {
		return fmt.Errorf("duplicate object path %q", path)
	}
	ix.nodes[path] = n
	return nil
}

// addGraph registers the types of g and the class default objects of its
// classes.
func (ix *refIndex) addGraph(g *model.Graph) error {
	for _, e := range g.Enums {
		if err := ix.add(e); err != nil {
			return err
		}
	}
	for _, s := range g.Structs {
		if err := ix.add(s); err != nil {
			return err
		}
	}
	for _, c := range g.Classes {
		if err := ix.add(c); err != nil {
			return err
		}
		if c.Default != nil {
			if err := ix.addObject(c.Default); err != nil {
				return err
			}
		}
	}
	return nil
}

// addObject registers o and every subobject below it.
func (ix *refIndex) addObject(o *model.Object) error {
	if err := ix.add(o); err != nil {
		return err
	}
	for _, sub := range o.Subobjects() {
		if err := ix.addObject(sub); err != nil {
			return err
		}
	}
	return nil
}

// resolve looks up ref by full path. A bare name is accepted for classes,
// structs and enums.
func (ix *refIndex) resolve(g *model.Graph, ref string) (model.Node, error) {
	if n, ok := ix.nodes[ref]; ok {
		return n, nil
	}
	if c := g.Class(ref); c != nil {
		return c, nil
	}
	if s := g.Struct(ref); s != nil {
		return s, nil
	}
	if e := g.Enum(ref); e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnresolvedReference, ref)
}

func (ix *refIndex) object(g *model.Graph, ref string) (*model.Object, error) {
	n, err := ix.resolve(g, ref)
	if err != nil {
		return nil, err
	}
	o, ok := n.(*model.Object)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an object", ErrUnresolvedReference, ref)
	}
	return o, nil
}
