package manifest

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrSyntax indicates the text is not a well-formed key-value document.
var ErrSyntax = errors.New("malformed key-value text")

// maxDepth bounds block nesting.
const maxDepth = 64

// SyntaxError locates a parse failure. It matches ErrSyntax with errors.Is.
type SyntaxError struct {
	Line   int
	Col    int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Reason)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Node is a key with either a string value or a block of children.
type Node struct {
	Key      string
	Value    string
	Children []*Node
	Block    bool
}

// Child returns the first child whose key matches name, ignoring case.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if strings.EqualFold(c.Key, name) {
			return c
		}
	}
	return nil
}

// Lookup follows a path of keys from n and returns the string value at the
// end of it.
func (n *Node) Lookup(names ...string) (string, bool) {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return "", false
		}
	}
	if cur.Block {
		return "", false
	}
	return cur.Value, true
}

// Walk calls fn for n and every descendant, depth first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

type parser struct {
	lex  *lexer
	peek *token
}

func (p *parser) next() (token, error) {
	if p.peek != nil {
		t := *p.peek
		p.peek = nil
		return t, nil
	}
	return p.lex.next()
}

func (p *parser) unread(t token) {
	p.peek = &t
}

// parsePairs appends pairs to parent until a closing brace (when nested) or
// the end of input (at the top level). Children are attached before their
// own bodies are read, so a failure leaves every pair read so far in place.
func (p *parser) parsePairs(parent *Node, depth int) error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokEOF:
			if depth > 0 {
				return &SyntaxError{Line: tok.line, Col: tok.col, Reason: fmt.Sprintf("block %q is not closed", parent.Key)}
			}
			return nil
		case tokClose:
			if depth == 0 {
				return &SyntaxError{Line: tok.line, Col: tok.col, Reason: "unexpected '}'"}
			}
			return nil
		case tokOpen:
			return &SyntaxError{Line: tok.line, Col: tok.col, Reason: "expected key, found '{'"}
		}

		node := &Node{Key: tok.text}
		parent.Children = append(parent.Children, node)

		val, err := p.next()
		if err != nil {
			return err
		}
		switch val.kind {
		case tokString:
			node.Value = val.text
		case tokOpen:
			if depth+1 > maxDepth {
				return &SyntaxError{Line: val.line, Col: val.col, Reason: "nesting too deep"}
			}
			node.Block = true
			if err := p.parsePairs(node, depth+1); err != nil {
				return err
			}
		default:
			return &SyntaxError{Line: val.line, Col: val.col, Reason: fmt.Sprintf("expected value for %q, found %s", node.Key, val.kind)}
		}
	}
}

// parse reads src into a synthetic root. On error the root still holds
// everything parsed before the failure.
func parse(src string) (*Node, error) {
	root := &Node{Block: true}
	p := &parser{lex: newLexer(src)}
	err := p.parsePairs(root, 0)
	return root, err
}

// Parse reads a complete key-value document. The returned node is a
// synthetic root whose children are the top-level pairs.
func Parse(text string) (*Node, error) {
	root, err := parse(text)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// ParseAppIDs returns the sorted, de-duplicated AppIDs found as keys
// directly inside any "apps" block at any depth. Keys that are not all
// digits are ignored. It never fails: malformed input yields whatever IDs
// were read before the problem, possibly none.
func ParseAppIDs(text string) []int64 {
	root, _ := parse(text)
	return AppIDs(root)
}

// AppIDs collects AppIDs from the "apps" blocks under n.
func AppIDs(n *Node) []int64 {
	var ids []int64
	n.Walk(func(node *Node) {
		if !node.Block || !strings.EqualFold(node.Key, "apps") {
			return
		}
		for _, c := range node.Children {
			if !isDigits(c.Key) {
				continue
			}
			id, err := strconv.ParseInt(c.Key, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	})
	slices.Sort(ids)
	return slices.Compact(ids)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
