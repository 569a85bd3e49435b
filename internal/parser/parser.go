package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/routelens/internal/syntax"
)

// Parser converts source bytes into a resolved syntax tree.
type Parser interface {
	Parse(ctx context.Context, src []byte, filename string) (syntax.Node, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".java": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".java":
		return &JavaParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
