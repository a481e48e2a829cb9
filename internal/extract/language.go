package extract

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrASTUnavailable is returned by ASTReferences when the binary was built
// without cgo.
var ErrASTUnavailable = errors.New("tree-sitter extraction requires cgo")

// Language selects the grammar used by ASTReferences.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// LanguageForPath picks a grammar from a file extension. Unknown and empty
// paths fall back to JavaScript.
func LanguageForPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx":
		return LangTSX
	default:
		return LangJavaScript
	}
}

// isRelative reports whether a quoted module string names a relative path.
func isRelative(quoted string) bool {
	return strings.HasPrefix(strings.Trim(quoted, `'"`+"`"), ".")
}
