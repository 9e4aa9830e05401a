// Package pyextractor extracts documentable elements from Python source
// using tree-sitter.
package pyextractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dejo1307/docmcp/internal/docparse"
	"github.com/dejo1307/docmcp/internal/extractors"
	"github.com/dejo1307/docmcp/internal/model"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// PyExtractor extracts elements from Python files. The docstring convention
// is comment-as-statement: the first string literal in a definition's body.
type PyExtractor struct{}

// New creates a new PyExtractor.
func New() *PyExtractor {
	return &PyExtractor{}
}

func (e *PyExtractor) Language() string {
	return "python"
}

func (e *PyExtractor) CanHandle(path string) bool {
	return extractors.HasExtension(path, ".py")
}

// Extract parses a Python file and returns its elements in declaration
// order, the synthetic module root first. Malformed regions are tolerated:
// tree-sitter produces a partial tree and extraction keeps whatever
// declarations it can still locate.
func (e *PyExtractor) Extract(src []byte, path string) ([]*model.Element, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(python.Language()))

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: no syntax tree produced", path)
	}
	defer tree.Close()

	root := tree.RootNode()

	module := &model.Element{
		Name:       moduleName(path),
		Kind:       model.KindModule,
		File:       path,
		Line:       1,
		EndLine:    int(root.EndPosition().Row) + 1,
		Visibility: model.VisibilityPublic,
		Status:     model.StatusMissing,
	}
	setDoc(module, docstringOf(root, src))

	for i := range root.ChildCount() {
		child := root.Child(i)
		if el := e.extractDefinition(child, src, path, false); el != nil {
			module.Children = append(module.Children, el)
		}
	}

	return model.Flatten(module), nil
}

// extractDefinition builds an element for a top-level or class-body
// definition node. inClass decides function-vs-method by construction
// context; nothing ever looks up a parent pointer.
func (e *PyExtractor) extractDefinition(node *sitter.Node, src []byte, path string, inClass bool) *model.Element {
	isProperty := false

	if node.Kind() == "decorated_definition" {
		for i := range node.ChildCount() {
			c := node.Child(i)
			if c.Kind() == "decorator" && strings.Contains(nodeText(c, src), "property") {
				isProperty = true
			}
		}
		def := node.ChildByFieldName("definition")
		if def == nil {
			return nil
		}
		node = def
	}

	switch node.Kind() {
	case "function_definition":
		return e.extractFunction(node, src, path, inClass, isProperty)
	case "class_definition":
		return e.extractClass(node, src, path)
	}
	return nil
}

func (e *PyExtractor) extractFunction(node *sitter.Node, src []byte, path string, inClass, isProperty bool) *model.Element {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nodeText(nameNode, src)

	kind := model.KindFunction
	if inClass {
		kind = model.KindMethod
	}
	if isProperty {
		kind = model.KindProperty
	}

	el := &model.Element{
		Name:       name,
		Kind:       kind,
		File:       path,
		Line:       int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
		Visibility: visibilityOf(name),
		Status:     model.StatusMissing,
	}

	el.Params = e.extractParameters(node.ChildByFieldName("parameters"), src, inClass)

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		el.Returns = &model.ReturnInfo{Type: nodeText(ret, src)}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		setDoc(el, docstringOf(node, src))
		el.Exceptions = raisedExceptions(body, src)
	}

	return el
}

func (e *PyExtractor) extractClass(node *sitter.Node, src []byte, path string) *model.Element {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nodeText(nameNode, src)

	el := &model.Element{
		Name:       name,
		Kind:       model.KindClass,
		File:       path,
		Line:       int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
		Visibility: visibilityOf(name),
		Status:     model.StatusMissing,
	}
	setDoc(el, docstringOf(node, src))

	if body := node.ChildByFieldName("body"); body != nil {
		for i := range body.ChildCount() {
			child := body.Child(i)
			if m := e.extractDefinition(child, src, path, true); m != nil {
				el.Children = append(el.Children, m)
			}
		}
	}

	return el
}

// extractParameters resolves parameter names, annotations, and defaults
// into opaque display strings. The implicit self/cls receiver of a method
// is dropped here, before the element is populated.
func (e *PyExtractor) extractParameters(params *sitter.Node, src []byte, inClass bool) []model.Parameter {
	if params == nil {
		return nil
	}

	var out []model.Parameter
	for i := range params.NamedChildCount() {
		p := params.NamedChild(i)

		var param model.Parameter
		switch p.Kind() {
		case "identifier":
			param = model.Parameter{Name: nodeText(p, src), Required: true}
		case "typed_parameter":
			// The pattern is the first child; the annotation is the type field.
			inner := p.NamedChild(0)
			if inner == nil || inner.Kind() != "identifier" {
				continue
			}
			param = model.Parameter{Name: nodeText(inner, src), Required: true}
			if tn := p.ChildByFieldName("type"); tn != nil {
				param.Type = nodeText(tn, src)
			}
		case "default_parameter", "typed_default_parameter":
			nameNode := p.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			param = model.Parameter{Name: nodeText(nameNode, src)}
			if tn := p.ChildByFieldName("type"); tn != nil {
				param.Type = nodeText(tn, src)
			}
			if vn := p.ChildByFieldName("value"); vn != nil {
				param.DefaultValue = nodeText(vn, src)
			}
		default:
			// *args, **kwargs, and bare separators are not documentable
			// parameters.
			continue
		}

		if inClass && len(out) == 0 && (param.Name == "self" || param.Name == "cls") {
			continue
		}
		out = append(out, param)
	}

	return out
}

// docstringOf returns the dedented docstring of a module, class, or
// function node: the string literal of the first statement in its body.
func docstringOf(node *sitter.Node, src []byte) string {
	body := node
	if node.Kind() != "module" {
		body = node.ChildByFieldName("body")
		if body == nil {
			return ""
		}
	}

	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := first.NamedChild(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}

	for i := range str.ChildCount() {
		c := str.Child(i)
		if c.Kind() == "string_content" {
			return docparse.Dedent(nodeText(c, src))
		}
	}
	return ""
}

// raisedExceptions collects exception type names from raise statements in a
// function body, without descending into nested definitions.
func raisedExceptions(body *sitter.Node, src []byte) []model.ExceptionInfo {
	var out []model.ExceptionInfo
	seen := make(map[string]bool)

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "function_definition", "class_definition":
			return
		case "raise_statement":
			if exc := n.NamedChild(0); exc != nil {
				name := exceptionName(exc, src)
				if name != "" && !seen[name] {
					seen[name] = true
					out = append(out, model.ExceptionInfo{Type: name})
				}
			}
			return
		}
		for i := range n.NamedChildCount() {
			walk(n.NamedChild(i))
		}
	}
	for i := range body.NamedChildCount() {
		walk(body.NamedChild(i))
	}

	return out
}

func exceptionName(n *sitter.Node, src []byte) string {
	switch n.Kind() {
	case "call":
		if fn := n.ChildByFieldName("function"); fn != nil {
			return exceptionName(fn, src)
		}
	case "identifier", "attribute":
		return nodeText(n, src)
	}
	return ""
}

func setDoc(el *model.Element, doc string) {
	if doc == "" {
		return
	}
	el.Doc = doc
	el.Summary, el.Description = docparse.SummaryAndDescription(doc)
}

// visibilityOf classifies a Python name by convention: __x__ is special,
// __x is private, _x is protected, everything else public.
func visibilityOf(name string) model.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return model.VisibilitySpecial
	case strings.HasPrefix(name, "__"):
		return model.VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return model.VisibilityProtected
	}
	return model.VisibilityPublic
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}
