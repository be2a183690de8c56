package feed

import (
	"fmt"

	"github.com/LesleyGao/internship-tracker/internal/config"
	"github.com/LesleyGao/internship-tracker/internal/domain"
)

// Parser turns raw feed bytes into listings. Strategies exist per feed shape
// and all produce the same Listing stream; the schema tells the store layer
// which column layout this strategy's listings persist under.
type Parser interface {
	Name() string
	Parse(raw []byte) ([]domain.Listing, error)
	Schema() domain.Schema
}

func ForKind(kind string) (Parser, error) {
	switch kind {
	case config.SourceJSON:
		return JSONParser{}, nil
	case config.SourceMarkdown:
		return MarkdownParser{}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}
