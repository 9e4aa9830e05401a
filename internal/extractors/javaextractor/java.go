// Package javaextractor extracts documentable elements from Java source
// using tree-sitter. The doc-comment convention is a Javadoc block comment
// immediately above a declaration.
package javaextractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dejo1307/docmcp/internal/docparse"
	"github.com/dejo1307/docmcp/internal/extractors"
	"github.com/dejo1307/docmcp/internal/model"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// JavaExtractor extracts elements from Java files.
type JavaExtractor struct{}

// New creates a new JavaExtractor.
func New() *JavaExtractor {
	return &JavaExtractor{}
}

func (e *JavaExtractor) Language() string {
	return "java"
}

func (e *JavaExtractor) CanHandle(path string) bool {
	return extractors.HasExtension(path, ".java")
}

// Extract parses a Java file and returns its elements in declaration
// order, the synthetic module root first.
func (e *JavaExtractor) Extract(src []byte, path string) ([]*model.Element, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(java.Language()))

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

	for i := range root.ChildCount() {
		child := root.Child(i)
		switch child.Kind() {
		case "class_declaration", "interface_declaration", "enum_declaration":
			if el := e.extractType(child, src, path); el != nil {
				module.Children = append(module.Children, el)
			}
		}
	}

	return model.Flatten(module), nil
}

func (e *JavaExtractor) extractType(node *sitter.Node, src []byte, path string) *model.Element {
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
		Visibility: visibilityOf(node, src),
		Status:     model.StatusMissing,
	}
	setDoc(el, precedingDoc(node, src))

	body := node.ChildByFieldName("body")
	if body == nil {
		return el
	}

	for i := range body.ChildCount() {
		member := body.Child(i)
		switch member.Kind() {
		case "method_declaration", "constructor_declaration":
			if m := e.extractMethod(member, src, path); m != nil {
				el.Children = append(el.Children, m)
			}
		case "class_declaration", "interface_declaration", "enum_declaration":
			if nested := e.extractType(member, src, path); nested != nil {
				el.Children = append(el.Children, nested)
			}
		}
	}

	return el
}

func (e *JavaExtractor) extractMethod(node *sitter.Node, src []byte, path string) *model.Element {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	el := &model.Element{
		Name:       nodeText(nameNode, src),
		Kind:       model.KindMethod,
		File:       path,
		Line:       int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
		Visibility: visibilityOf(node, src),
		Status:     model.StatusMissing,
	}
	setDoc(el, precedingDoc(node, src))

	el.Params = e.extractParameters(node.ChildByFieldName("parameters"), src)

	if node.Kind() == "method_declaration" {
		if ret := node.ChildByFieldName("type"); ret != nil {
			if t := nodeText(ret, src); t != "void" {
				el.Returns = &model.ReturnInfo{Type: t}
			}
		}
	}

	el.Exceptions = declaredThrows(node, src)

	return el
}

func (e *JavaExtractor) extractParameters(params *sitter.Node, src []byte) []model.Parameter {
	if params == nil {
		return nil
	}

	var out []model.Parameter
	for i := range params.NamedChildCount() {
		p := params.NamedChild(i)
		if p.Kind() != "formal_parameter" && p.Kind() != "spread_parameter" {
			continue
		}
		nameNode := p.ChildByFieldName("name")
		if nameNode == nil {
			// spread_parameter has no name field; its last identifier child
			// is the name.
			nameNode = lastChildOfKind(p, "identifier")
		}
		if nameNode == nil {
			continue
		}
		param := model.Parameter{Name: nodeText(nameNode, src), Required: true}
		if tn := p.ChildByFieldName("type"); tn != nil {
			param.Type = nodeText(tn, src)
		}
		out = append(out, param)
	}

	return out
}

// declaredThrows collects exception types from a method's throws clause.
// Java checked exceptions give the exception-completeness rule exact input.
func declaredThrows(node *sitter.Node, src []byte) []model.ExceptionInfo {
	var out []model.ExceptionInfo
	for i := range node.ChildCount() {
		c := node.Child(i)
		if c.Kind() != "throws" {
			continue
		}
		for j := range c.NamedChildCount() {
			t := c.NamedChild(j)
			switch t.Kind() {
			case "type_identifier", "scoped_type_identifier", "generic_type":
				out = append(out, model.ExceptionInfo{Type: nodeText(t, src)})
			}
		}
	}
	return out
}

// precedingDoc returns the cleaned text of a Javadoc comment ending on the
// line directly above the node, or "".
func precedingDoc(node *sitter.Node, src []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Kind() != "block_comment" {
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

// visibilityOf reads a declaration's modifiers. Java declares visibility
// instead of encoding it in names; package-private defaults to protected so
// the should-document policy still applies to it.
func visibilityOf(node *sitter.Node, src []byte) model.Visibility {
	for i := range node.ChildCount() {
		c := node.Child(i)
		if c.Kind() != "modifiers" {
			continue
		}
		text := nodeText(c, src)
		switch {
		case strings.Contains(text, "private"):
			return model.VisibilityPrivate
		case strings.Contains(text, "protected"):
			return model.VisibilityProtected
		case strings.Contains(text, "public"):
			return model.VisibilityPublic
		}
	}
	return model.VisibilityProtected
}

func lastChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	var found *sitter.Node
	for i := range node.ChildCount() {
		c := node.Child(i)
		if c.Kind() == kind {
			found = c
		}
	}
	return found
}

func setDoc(el *model.Element, doc string) {
	if doc == "" {
		return
	}
	el.Doc = doc
	el.Summary, el.Description = docparse.SummaryAndDescription(doc)
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}
