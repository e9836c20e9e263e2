package extract

// Extractor turns a fetched body into a Document.
// Implementations should be deterministic and avoid side effects.
type Extractor interface {
    Extract(input []byte) Document
}

// TextExtractor flattens HTML with FromHTML. Plain text bodies pass through
// the HTML parser unchanged apart from whitespace normalization.
type TextExtractor struct{}

func (TextExtractor) Extract(input []byte) Document {
    return FromHTML(input)
}
