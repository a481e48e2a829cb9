//go:build !cgo

package extract

import "context"

// ASTAvailable reports whether ASTReferences can parse.
func ASTAvailable() bool {
	return false
}

// ASTReferences always fails without cgo; callers fall back to References.
func ASTReferences(ctx context.Context, source []byte, lang Language) ([]string, error) {
	return nil, ErrASTUnavailable
}
