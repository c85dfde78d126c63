// Package chunker splits page text into an ordered sequence of bounded
// fragments. Cut points prefer, in order: fenced code block boundaries,
// paragraph breaks, sentence breaks, then a hard cut at the size limit.
package chunker

import "strings"

// DefaultMaxSize is the target chunk length in bytes.
const DefaultMaxSize = 5000

// Splitter produces bounded chunks from raw text. A fenced code block is
// never split: when the size limit lands inside an open fence, the chunk
// extends to the fence's close even past the limit.
type Splitter struct {
	maxSize int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxSize sets the target chunk size in bytes.
func WithMaxSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxSize: DefaultMaxSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MaxSize returns the configured target chunk size.
func (s *Splitter) MaxSize() int {
	return s.maxSize
}

// Split chunks text into an ordered sequence of trimmed fragments.
// Empty input yields no chunks; input within the size limit yields one.
// Concatenating the fragments reproduces the input up to the whitespace
// trimmed at chunk boundaries.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fences := fenceSpans(text)
	chunks := make([]string, 0, len(text)/s.maxSize+1)

	start := 0
	for start < len(text) {
		end := start + s.maxSize
		if end >= len(text) {
			chunks = appendTrimmed(chunks, text[start:])
			break
		}

		end = s.cutPoint(text, start, end, fences)
		chunks = appendTrimmed(chunks, text[start:end])
		start = end
	}

	return chunks
}

// cutPoint picks where the chunk starting at start should end. end is the
// hard limit position (start + maxSize), known to be inside the text.
func (s *Splitter) cutPoint(text string, start, end int, fences []span) int {
	// An open fence at the limit extends the chunk to its close.
	if f := enclosing(fences, end); f != nil {
		return f.end
	}

	// Cut points in the first 30% of the window produce runt chunks and
	// are rejected in favour of the next preference.
	minBreak := s.maxSize * 3 / 10
	window := text[start:end]

	for idx := strings.LastIndex(window, "\n\n"); idx > minBreak; idx = strings.LastIndex(window[:idx], "\n\n") {
		if enclosing(fences, start+idx) == nil {
			return start + idx
		}
	}

	for idx := strings.LastIndex(window, ". "); idx > minBreak; idx = strings.LastIndex(window[:idx], ". ") {
		if enclosing(fences, start+idx) == nil {
			return start + idx + 1
		}
	}

	return end
}

func appendTrimmed(chunks []string, fragment string) []string {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return chunks
	}
	return append(chunks, trimmed)
}

// span marks a fenced code block as [start, end) byte offsets, covering
// the opening fence line through the closing fence line inclusive.
type span struct {
	start int
	end   int
}

// fenceSpans locates fenced code blocks. Fence markers are lines whose
// first non-blank characters are three backticks; markers pair up in
// document order and an unclosed fence runs to the end of the text.
func fenceSpans(text string) []span {
	var spans []span
	openAt := -1

	pos := 0
	for pos < len(text) {
		next := len(text)
		if nl := strings.IndexByte(text[pos:], '\n'); nl >= 0 {
			next = pos + nl + 1
		}

		line := strings.TrimLeft(strings.TrimSuffix(text[pos:next], "\n"), " \t")
		if strings.HasPrefix(line, "```") {
			if openAt < 0 {
				openAt = pos
			} else {
				spans = append(spans, span{start: openAt, end: next})
				openAt = -1
			}
		}

		pos = next
	}

	if openAt >= 0 {
		spans = append(spans, span{start: openAt, end: len(text)})
	}

	return spans
}

// enclosing returns the span strictly containing pos, or nil. Positions
// exactly on a span edge are outside: cutting there leaves the block whole.
func enclosing(spans []span, pos int) *span {
	for i := range spans {
		if spans[i].start < pos && pos < spans[i].end {
			return &spans[i]
		}
	}
	return nil
}
