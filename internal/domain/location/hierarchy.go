// Package location mantiene el árbol de subbodegas de una o varias bodegas.
//
// Los nodos se guardan en un arena indexado por ID y los padres se referencian por ID.
// Todos los recorridos son iterativos, con conjunto de visitados y límite de profundidad,
// de modo que un ciclo introducido por datos externos falla en lugar de colgar el proceso.
package location

import (
	"sort"
	"strings"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// PathSeparator separa los nombres en la ruta completa.
const PathSeparator = " > "

// DefaultMaxDepth profundidad máxima por defecto.
const DefaultMaxDepth = 64

// Tree arena de subbodegas.
type Tree struct {
	nodes    map[string]entity.SubLocation
	children map[string][]string
	maxDepth int
}

// NewTree construye el arena a partir de la lista de subbodegas (una sola lectura del árbol).
func NewTree(subs []*entity.SubLocation, maxDepth int) *Tree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	t := &Tree{
		nodes:    make(map[string]entity.SubLocation, len(subs)),
		children: make(map[string][]string),
		maxDepth: maxDepth,
	}
	for _, s := range subs {
		if s == nil {
			continue
		}
		t.nodes[s.ID] = *s
	}
	for id, s := range t.nodes {
		if s.ParentID != "" {
			t.children[s.ParentID] = append(t.children[s.ParentID], id)
		}
	}
	for parent := range t.children {
		ids := t.children[parent]
		sort.Slice(ids, func(i, j int) bool {
			a, b := t.nodes[ids[i]], t.nodes[ids[j]]
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
	}
	return t
}

// Len número de nodos.
func (t *Tree) Len() int { return len(t.nodes) }

// Get devuelve el nodo por ID.
func (t *Tree) Get(id string) (entity.SubLocation, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Ancestors devuelve la cadena desde la raíz hasta id (incluido).
func (t *Tree) Ancestors(id string) ([]entity.SubLocation, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	visited := map[string]struct{}{}
	chain := []entity.SubLocation{}
	for {
		if _, seen := visited[node.ID]; seen {
			return nil, &domain.StructuralError{Op: "ruta de subbodega " + id, Err: domain.ErrHierarchyCycle}
		}
		visited[node.ID] = struct{}{}
		if len(chain) >= t.maxDepth {
			return nil, &domain.StructuralError{Op: "ruta de subbodega " + id, Err: domain.ErrHierarchyTooDeep}
		}
		chain = append(chain, node)
		if node.ParentID == "" {
			break
		}
		parent, ok := t.nodes[node.ParentID]
		if !ok {
			return nil, &domain.StructuralError{Op: "ruta de subbodega " + id, Err: domain.ErrUnresolvedReference}
		}
		node = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// FullPath nombres desde la raíz unidos por " > ".
func (t *Tree) FullPath(id string) (string, error) {
	chain, err := t.Ancestors(id)
	if err != nil {
		return "", err
	}
	names := make([]string, len(chain))
	for i, n := range chain {
		names[i] = n.Name
	}
	return strings.Join(names, PathSeparator), nil
}

// Descendants devuelve id y todos sus descendientes transitivos, en orden de recorrido en profundidad.
func (t *Tree) Descendants(id string) ([]string, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, domain.ErrNotFound
	}
	type frame struct {
		id    string
		depth int
	}
	visited := map[string]struct{}{}
	stack := []frame{{id: id, depth: 1}}
	out := []string{}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[f.id]; seen {
			return nil, &domain.StructuralError{Op: "descendientes de subbodega " + id, Err: domain.ErrHierarchyCycle}
		}
		if f.depth > t.maxDepth {
			return nil, &domain.StructuralError{Op: "descendientes de subbodega " + id, Err: domain.ErrHierarchyTooDeep}
		}
		visited[f.id] = struct{}{}
		out = append(out, f.id)
		kids := t.children[f.id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: kids[i], depth: f.depth + 1})
		}
	}
	return out, nil
}

// CheckParent valida que node pueda colgar de parentID: padre existente en la misma bodega,
// sin formar ciclo y sin superar la profundidad máxima. parentID vacío siempre es válido.
func (t *Tree) CheckParent(node entity.SubLocation, parentID string) error {
	if parentID == "" {
		return nil
	}
	parent, ok := t.nodes[parentID]
	if !ok {
		return &domain.StructuralError{Op: "subbodega padre " + parentID, Err: domain.ErrUnresolvedReference}
	}
	if parent.WarehouseID != node.WarehouseID {
		return &domain.StructuralError{Op: "subbodega padre " + parentID, Err: domain.ErrCrossWarehouseParent}
	}
	if node.ID != "" && parentID == node.ID {
		return &domain.StructuralError{Op: "subbodega padre " + parentID, Err: domain.ErrHierarchyCycle}
	}
	chain, err := t.Ancestors(parentID)
	if err != nil {
		return err
	}
	for _, a := range chain {
		if node.ID != "" && a.ID == node.ID {
			return &domain.StructuralError{Op: "subbodega padre " + parentID, Err: domain.ErrHierarchyCycle}
		}
	}
	depth := len(chain) + 1
	if node.ID != "" {
		// Al mover un subárbol existente cuenta también su altura.
		if _, exists := t.nodes[node.ID]; exists {
			h, err := t.height(node.ID)
			if err != nil {
				return err
			}
			depth += h - 1
		}
	}
	if depth > t.maxDepth {
		return &domain.StructuralError{Op: "subbodega padre " + parentID, Err: domain.ErrHierarchyTooDeep}
	}
	return nil
}

// height altura del subárbol con raíz en id (1 = hoja).
func (t *Tree) height(id string) (int, error) {
	type frame struct {
		id    string
		depth int
	}
	visited := map[string]struct{}{}
	stack := []frame{{id: id, depth: 1}}
	highest := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[f.id]; seen {
			return 0, &domain.StructuralError{Op: "altura de subbodega " + id, Err: domain.ErrHierarchyCycle}
		}
		if f.depth > t.maxDepth {
			return 0, &domain.StructuralError{Op: "altura de subbodega " + id, Err: domain.ErrHierarchyTooDeep}
		}
		visited[f.id] = struct{}{}
		if f.depth > highest {
			highest = f.depth
		}
		for _, k := range t.children[f.id] {
			stack = append(stack, frame{id: k, depth: f.depth + 1})
		}
	}
	return highest, nil
}

// Validate recorre todo el arena y devuelve el primer error estructural encontrado
// (padre inexistente, padre en otra bodega, ciclo o profundidad excesiva).
func (t *Tree) Validate() error {
	ids := make([]string, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := t.nodes[id]
		if n.ParentID != "" {
			p, ok := t.nodes[n.ParentID]
			if !ok {
				return &domain.StructuralError{Op: "subbodega " + id, Err: domain.ErrUnresolvedReference}
			}
			if p.WarehouseID != n.WarehouseID {
				return &domain.StructuralError{Op: "subbodega " + id, Err: domain.ErrCrossWarehouseParent}
			}
		}
		if _, err := t.Ancestors(id); err != nil {
			return err
		}
	}
	return nil
}
