//go:build cgo

package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ASTAvailable reports whether ASTReferences can parse.
func ASTAvailable() bool {
	return true
}

// ASTReferences parses source and returns the quoted module string of every
// non-relative import or export ... from statement, require(...) call and
// dynamic import(...), in source order.
func ASTReferences(ctx context.Context, source []byte, lang Language) ([]string, error) {
	tsLang, err := grammar(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tsLang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	var refs []string
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if s := moduleString(node, source); s != "" && !isRelative(s) {
			refs = append(refs, s)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(tree.RootNode())

	return refs, nil
}

func grammar(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangJavaScript, "":
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// moduleString returns the raw string literal naming a module when node is an
// import, re-export or require/import call. Otherwise "".
func moduleString(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "import_statement", "export_statement":
		if src := node.ChildByFieldName("source"); src != nil && src.Type() == "string" {
			return src.Content(source)
		}
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return ""
		}
		isRequire := fn.Type() == "identifier" && fn.Content(source) == "require"
		if !isRequire && fn.Type() != "import" {
			return ""
		}
		args := node.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() != 1 {
			return ""
		}
		if arg := args.NamedChild(0); arg.Type() == "string" {
			return arg.Content(source)
		}
	}
	return ""
}
