package document

// Kind is the layout role of a block.
type Kind int

const (
	// KindHeaderFooter blocks keep their line breaks and are left-aligned.
	KindHeaderFooter Kind = iota
	// KindBody blocks are reflowed into a single justified paragraph.
	KindBody
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	default:
		return "header_footer"
	}
}

// Default block counts for the letter shape the prompt asks for:
// contact info, date, recipient, salutation / closing, signature.
const (
	DefaultHeaderBlocks = 4
	DefaultFooterBlocks = 2
)

// Classifier assigns a Kind from a block's position alone.
type Classifier struct {
	HeaderBlocks int
	FooterBlocks int
}

// DefaultClassifier returns the 4 leading / 2 trailing block classifier.
func DefaultClassifier() Classifier {
	return Classifier{HeaderBlocks: DefaultHeaderBlocks, FooterBlocks: DefaultFooterBlocks}
}

// Classify returns the Kind of the block at index in a sequence of total blocks.
func (c Classifier) Classify(index, total int) Kind {
	if index >= c.HeaderBlocks && index < total-c.FooterBlocks {
		return KindBody
	}
	return KindHeaderFooter
}

// Block is a segmented block together with its classification.
type Block struct {
	Index int
	Text  string
	Kind  Kind
}

// IsBody reports whether the block is a body paragraph.
func (b Block) IsBody() bool { return b.Kind == KindBody }

// Blocks segments text and classifies every block.
func (c Classifier) Blocks(text string) []Block {
	segments := Segment(text)
	blocks := make([]Block, len(segments))
	for i, s := range segments {
		blocks[i] = Block{Index: i, Text: s, Kind: c.Classify(i, len(segments))}
	}
	return blocks
}
