// Package tsextractor extracts documentable elements from JavaScript and
// TypeScript source using tree-sitter. The doc-comment convention is a
// block comment starting with /** on the lines immediately above a
// declaration.
package tsextractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dejo1307/docmcp/internal/docparse"
	"github.com/dejo1307/docmcp/internal/extractors"
	"github.com/dejo1307/docmcp/internal/model"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TSExtractor extracts elements from JavaScript/TypeScript files.
type TSExtractor struct{}

// New creates a new TSExtractor.
func New() *TSExtractor {
	return &TSExtractor{}
}

func (e *TSExtractor) Language() string {
	return "javascript"
}

func (e *TSExtractor) CanHandle(path string) bool {
	return extractors.HasExtension(path, ".js", ".jsx", ".ts", ".tsx")
}

// Extract parses a JS/TS file and returns its elements in declaration
// order, the synthetic module root first.
func (e *TSExtractor) Extract(src []byte, path string) ([]*model.Element, error) {
	lang := typescript.LanguageTypescript()
	if strings.HasSuffix(path, ".tsx") || strings.HasSuffix(path, ".jsx") {
		lang = typescript.LanguageTSX()
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(lang))

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
	if doc := moduleDoc(root, src); doc != "" {
		setDoc(module, doc)
	}

	for i := range root.ChildCount() {
		child := root.Child(i)
		els := e.extractNode(child, src, path)
		module.Children = append(module.Children, els...)
	}

	return model.Flatten(module), nil
}

func (e *TSExtractor) extractNode(node *sitter.Node, src []byte, path string) []*model.Element {
	switch node.Kind() {
	case "export_statement":
		for i := range node.ChildCount() {
			inner := node.Child(i)
			switch inner.Kind() {
			case "function_declaration", "class_declaration", "lexical_declaration", "variable_declaration":
				els := e.extractNode(inner, src, path)
				// The doc comment sits above the export keyword, not the
				// inner declaration.
				if len(els) > 0 && !els[0].HasDoc() {
					setDoc(els[0], precedingDoc(node, src))
				}
				return els
			}
		}

	case "function_declaration":
		if el := e.extractFunction(node, src, path, model.KindFunction, ""); el != nil {
			return []*model.Element{el}
		}

	case "class_declaration":
		if el := e.extractClass(node, src, path); el != nil {
			return []*model.Element{el}
		}

	case "lexical_declaration", "variable_declaration":
		// const foo = (a, b) => { ... } declares a documentable function.
		return e.extractDeclarators(node, src, path)
	}
	return nil
}

func (e *TSExtractor) extractFunction(node *sitter.Node, src []byte, path string, kind model.ElementKind, name string) *model.Element {
	if name == "" {
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return nil
		}
		name = nodeText(nameNode, src)
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
	setDoc(el, precedingDoc(node, src))

	el.Params = e.extractParameters(node.ChildByFieldName("parameters"), src)
	if el.Params == nil {
		// Arrow functions with a single bare parameter carry it in the
		// "parameter" field instead.
		if p := node.ChildByFieldName("parameter"); p != nil && p.Kind() == "identifier" {
			el.Params = []model.Parameter{{Name: nodeText(p, src), Required: true}}
		}
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		el.Returns = &model.ReturnInfo{Type: annotationType(ret, src)}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		el.Exceptions = thrownExceptions(body, src)
	}

	return el
}

func (e *TSExtractor) extractClass(node *sitter.Node, src []byte, path string) *model.Element {
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
	setDoc(el, precedingDoc(node, src))

	body := node.ChildByFieldName("body")
	if body == nil {
		return el
	}

	for i := range body.ChildCount() {
		member := body.Child(i)
		if member.Kind() != "method_definition" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		mName := nodeText(nameNode, src)

		m := e.extractFunction(member, src, path, model.KindMethod, mName)
		if m == nil {
			continue
		}
		if mod := accessibilityOf(member, src); mod != "" {
			m.Visibility = mod
		}
		el.Children = append(el.Children, m)
	}

	return el
}

func (e *TSExtractor) extractDeclarators(node *sitter.Node, src []byte, path string) []*model.Element {
	var out []*model.Element

	for i := range node.NamedChildCount() {
		decl := node.NamedChild(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		value := decl.ChildByFieldName("value")
		if value == nil {
			continue
		}
		if value.Kind() != "arrow_function" && value.Kind() != "function_expression" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}

		el := e.extractFunction(value, src, path, model.KindFunction, nodeText(nameNode, src))
		if el == nil {
			continue
		}
		el.Line = int(node.StartPosition().Row) + 1
		if !el.HasDoc() {
			setDoc(el, precedingDoc(node, src))
		}
		out = append(out, el)
	}

	return out
}

func (e *TSExtractor) extractParameters(params *sitter.Node, src []byte) []model.Parameter {
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
		case "required_parameter", "optional_parameter":
			pattern := p.ChildByFieldName("pattern")
			if pattern == nil || pattern.Kind() != "identifier" {
				continue
			}
			param = model.Parameter{
				Name:     nodeText(pattern, src),
				Required: p.Kind() == "required_parameter",
			}
			if tn := p.ChildByFieldName("type"); tn != nil {
				param.Type = annotationType(tn, src)
			}
			if vn := p.ChildByFieldName("value"); vn != nil {
				param.DefaultValue = nodeText(vn, src)
				param.Required = false
			}
		case "assignment_pattern":
			left := p.ChildByFieldName("left")
			if left == nil || left.Kind() != "identifier" {
				continue
			}
			param = model.Parameter{Name: nodeText(left, src)}
			if right := p.ChildByFieldName("right"); right != nil {
				param.DefaultValue = nodeText(right, src)
			}
		default:
			// Rest parameters and destructuring patterns are not
			// documentable by name.
			continue
		}
		out = append(out, param)
	}

	return out
}

// precedingDoc returns the cleaned text of a /** block comment ending on
// the line directly above the node, or "".
func precedingDoc(node *sitter.Node, src []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}
	text := nodeText(prev, src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	gap := int(node.StartPosition().Row) - int(prev.EndPosition().Row)
	if gap > 1 {
		return ""
	}
	return cleanBlockComment(text)
}

// moduleDoc returns a leading /** comment that is not attached to the first
// declaration (separated by at least one blank line).
func moduleDoc(root *sitter.Node, src []byte) string {
	first := root.Child(0)
	if first == nil || first.Kind() != "comment" {
		return ""
	}
	text := nodeText(first, src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	if next := first.NextNamedSibling(); next != nil {
		gap := int(next.StartPosition().Row) - int(first.EndPosition().Row)
		if gap <= 1 && next.Kind() != "comment" {
			// Belongs to the declaration below it.
			return ""
		}
	}
	return cleanBlockComment(text)
}

// cleanBlockComment strips the /** ... */ markers and the conventional
// leading asterisks, then normalizes indentation.
func cleanBlockComment(text string) string {
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed, "*")
			trimmed = strings.TrimPrefix(trimmed, " ")
			lines[i] = trimmed
		}
	}
	return docparse.Dedent(strings.Join(lines, "\n"))
}

func thrownExceptions(body *sitter.Node, src []byte) []model.ExceptionInfo {
	var out []model.ExceptionInfo
	seen := make(map[string]bool)

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "function_declaration", "arrow_function", "function_expression", "class_declaration":
			return
		case "throw_statement":
			if name := thrownName(n.NamedChild(0), src); name != "" && !seen[name] {
				seen[name] = true
				out = append(out, model.ExceptionInfo{Type: name})
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

func thrownName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "new_expression":
		if c := n.ChildByFieldName("constructor"); c != nil {
			return nodeText(c, src)
		}
	case "identifier":
		return nodeText(n, src)
	}
	return ""
}

func accessibilityOf(member *sitter.Node, src []byte) model.Visibility {
	for i := range member.ChildCount() {
		c := member.Child(i)
		if c.Kind() == "accessibility_modifier" {
			switch nodeText(c, src) {
			case "private":
				return model.VisibilityPrivate
			case "protected":
				return model.VisibilityProtected
			}
		}
	}
	return ""
}

// annotationType strips the leading ": " of a type annotation node so the
// stored type is a bare display string.
func annotationType(n *sitter.Node, src []byte) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(nodeText(n, src)), ":"))
}

func setDoc(el *model.Element, doc string) {
	if doc == "" {
		return
	}
	el.Doc = doc
	el.Summary, el.Description = docparse.SummaryAndDescription(doc)
}

// visibilityOf classifies a JS/TS name by convention: #x is private, _x is
// protected, everything else public.
func visibilityOf(name string) model.Visibility {
	switch {
	case strings.HasPrefix(name, "#"):
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
