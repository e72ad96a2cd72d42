package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Node is one value of a metadata tree. The zero Node is null.
type Node struct {
	kind   Kind
	str    string
	num    float64
	flag   bool
	list   []Node
	keys   []string
	fields map[string]Node
}

// FromAny converts decoded JSON or YAML into a Node tree. Map keys are kept
// in sorted order.
func FromAny(x any) Node {
	switch t := x.(type) {
	case nil:
		return Node{}
	case Node:
		return t
	case string:
		return Node{kind: KindString, str: t}
	case bool:
		return Node{kind: KindBool, flag: t}
	case float64:
		return Node{kind: KindNumber, num: t}
	case float32:
		return Node{kind: KindNumber, num: float64(t)}
	case int:
		return Node{kind: KindNumber, num: float64(t)}
	case int64:
		return Node{kind: KindNumber, num: float64(t)}
	case uint64:
		return Node{kind: KindNumber, num: float64(t)}
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Node{kind: KindNumber, num: f}
		}
		return Node{kind: KindString, str: t.String()}
	case time.Time:
		return Node{kind: KindString, str: t.Format(time.RFC3339)}
	case []any:
		list := make([]Node, len(t))
		for i, e := range t {
			list[i] = FromAny(e)
		}
		return Node{kind: KindList, list: list}
	case []string:
		list := make([]Node, len(t))
		for i, e := range t {
			list[i] = Node{kind: KindString, str: e}
		}
		return Node{kind: KindList, list: list}
	case map[string]any:
		n := Node{kind: KindMap, fields: make(map[string]Node, len(t))}
		for k, v := range t {
			n.fields[k] = FromAny(v)
			n.keys = append(n.keys, k)
		}
		sort.Strings(n.keys)
		return n
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[fmt.Sprint(k)] = v
		}
		return FromAny(m)
	}
	return Node{kind: KindString, str: fmt.Sprint(x)}
}

func (n Node) Kind() Kind     { return n.kind }
func (n Node) IsNull() bool   { return n.kind == KindNull }
func (n Node) Len() int       { return len(n.list) }
func (n Node) Items() []Node  { return n.list }
func (n Node) Keys() []string { return n.keys }

// Get returns a map member.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != KindMap {
		return Node{}, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Present mirrors the truthiness the scoring rules rely on: a field counts
// as filled when it is a non-blank string, a non-zero number, true, or a
// non-empty list or map.
func (n Node) Present() bool {
	switch n.kind {
	case KindString:
		return strings.TrimSpace(n.str) != ""
	case KindNumber:
		return n.num != 0 && !math.IsNaN(n.num)
	case KindBool:
		return n.flag
	case KindList:
		return len(n.list) > 0
	case KindMap:
		return len(n.fields) > 0
	}
	return false
}

// Text returns scalar nodes as strings.
func (n Node) Text() (string, bool) {
	switch n.kind {
	case KindString:
		return n.str, true
	case KindNumber:
		return strconv.FormatFloat(n.num, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(n.flag), true
	}
	return "", false
}

// Float returns numbers as-is and parses numeric strings.
func (n Node) Float() (float64, bool) {
	switch n.kind {
	case KindNumber:
		return n.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(n.str), 64)
		return f, err == nil
	}
	return 0, false
}

// Interface converts the node back to plain Go values.
func (n Node) Interface() any {
	switch n.kind {
	case KindString:
		return n.str
	case KindNumber:
		return n.num
	case KindBool:
		return n.flag
	case KindList:
		out := make([]any, len(n.list))
		for i, e := range n.list {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(n.fields))
		for k, v := range n.fields {
			out[k] = v.Interface()
		}
		return out
	}
	return nil
}

// lookupAll walks path from n. A "[]" segment fans out over list items.
func lookupAll(n Node, path []string) []Node {
	if len(path) == 0 {
		return []Node{n}
	}
	seg, rest := path[0], path[1:]
	if seg == "[]" {
		var out []Node
		for _, item := range n.list {
			out = append(out, lookupAll(item, rest)...)
		}
		return out
	}
	child, ok := n.Get(seg)
	if !ok {
		return nil
	}
	return lookupAll(child, rest)
}
