package export

// Block is one element of a document body. Implementations are Paragraph,
// TableBlock, Image and PageBreak.
type Block interface {
	isBlock()
}

// Paragraph is a single line or wrapped run of text.
type Paragraph struct {
	Text      string
	Bold      bool
	FontSize  int
	Alignment Alignment
}

// TableBlock embeds a validated table.
type TableBlock struct {
	Table Table
}

// Image embeds PNG bytes at a display size expressed in pixels.
type Image struct {
	Name   string
	PNG    []byte
	Width  int
	Height int
}

// PageBreak starts a new page.
type PageBreak struct{}

func (Paragraph) isBlock()  {}
func (TableBlock) isBlock() {}
func (Image) isBlock()      {}
func (PageBreak) isBlock()  {}

// Document is an ordered list of blocks plus metadata.
type Document struct {
	Title  string
	Blocks []Block
}

// DocumentBuilder appends blocks in order.
type DocumentBuilder struct {
	doc Document
}

// NewDocumentBuilder starts an empty document.
func NewDocumentBuilder(title string) *DocumentBuilder {
	return &DocumentBuilder{doc: Document{Title: title}}
}

// Paragraph appends a text block.
func (b *DocumentBuilder) Paragraph(p Paragraph) *DocumentBuilder {
	b.doc.Blocks = append(b.doc.Blocks, p)
	return b
}

// Table appends a table block.
func (b *DocumentBuilder) Table(t Table) *DocumentBuilder {
	b.doc.Blocks = append(b.doc.Blocks, TableBlock{Table: t})
	return b
}

// Image appends an embedded PNG.
func (b *DocumentBuilder) Image(img Image) *DocumentBuilder {
	b.doc.Blocks = append(b.doc.Blocks, img)
	return b
}

// PageBreak starts a new page.
func (b *DocumentBuilder) PageBreak() *DocumentBuilder {
	b.doc.Blocks = append(b.doc.Blocks, PageBreak{})
	return b
}

// Document returns the assembled document.
func (b *DocumentBuilder) Document() Document {
	return b.doc
}
