// Package chunk extracts fenced code blocks from assistant response text.
//
// The grammar is deliberately small: a fence is any line beginning with
// three backticks, the opening fence may carry a "lang" or "lang:filename"
// info string, and the block body runs until the next fence line. There is
// no escaping and no nesting; a stray triple backtick inside a code sample
// terminates the block. An opening fence that is never closed yields no
// block at all and the raw text passes through unchanged.
package chunk

import "strings"

// Fence is the delimiter marking the start and end of an embedded code
// region.
const Fence = "```"

// DefaultLanguage is the placeholder tag used when a block declares no
// language or one the client does not recognize.
const DefaultLanguage = "text"

// CodeBlock is a code region lifted out of response text. Blocks are
// derived values: they are recomputed from message content and discarded
// wholesale when the chat is cleared.
type CodeBlock struct {
	Code     string
	Language string
	Filename string
}

// Title returns the label shown on a rendered panel: the filename when the
// fence declared one, otherwise the language tag.
func (b CodeBlock) Title() string {
	if b.Filename != "" {
		return b.Filename
	}
	return b.Language
}

// SegmentKind discriminates the two segment flavors.
type SegmentKind int

const (
	// Prose is free-form text between code blocks.
	Prose SegmentKind = iota
	// Code is an extracted code block.
	Code
)

// Segment is one piece of a split response: either a run of prose or a
// single code block, in document order.
type Segment struct {
	Kind  SegmentKind
	Text  string    // set when Kind == Prose
	Block CodeBlock // set when Kind == Code
}

// Extract returns the code blocks found in text, in order. The number of
// blocks always equals the number of fence pairs.
func Extract(text string) []CodeBlock {
	var blocks []CodeBlock
	for _, seg := range Split(text) {
		if seg.Kind == Code {
			blocks = append(blocks, seg.Block)
		}
	}
	return blocks
}

// Split divides text into alternating prose and code segments. Fence lines
// and the info string never appear in a code body; malformed regions come
// back as prose, byte for byte.
func Split(text string) []Segment {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")

	var segments []Segment
	var prose []string

	flushProse := func() {
		if len(prose) > 0 {
			segments = append(segments, Segment{Kind: Prose, Text: strings.Join(prose, "\n")})
			prose = nil
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		if !strings.HasPrefix(line, Fence) {
			prose = append(prose, line)
			i++
			continue
		}

		// Opening fence. Look ahead for the closing fence before
		// committing to a block.
		closing := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.HasPrefix(lines[j], Fence) {
				closing = j
				break
			}
		}
		if closing == -1 {
			// Unclosed fence: the rest of the text is prose, unchanged.
			prose = append(prose, lines[i:]...)
			i = len(lines)
			break
		}

		flushProse()

		language, filename := parseInfoString(strings.TrimPrefix(line, Fence))
		segments = append(segments, Segment{
			Kind: Code,
			Block: CodeBlock{
				Code:     strings.Join(lines[i+1:closing], "\n"),
				Language: language,
				Filename: filename,
			},
		})
		i = closing + 1
	}
	flushProse()

	return segments
}

// parseInfoString splits an opening fence's info string into a normalized
// language tag and an optional filename. Accepted forms: "", "lang", and
// "lang:filename".
func parseInfoString(info string) (language, filename string) {
	info = strings.TrimSpace(info)
	if idx := strings.Index(info, ":"); idx >= 0 {
		filename = strings.TrimSpace(info[idx+1:])
		info = strings.TrimSpace(info[:idx])
	}
	return NormalizeLanguage(info), filename
}

// languageAliases maps common shorthand tags to canonical names.
var languageAliases = map[string]string{
	"js":         "javascript",
	"jsx":        "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"py":         "python",
	"rb":         "ruby",
	"rs":         "rust",
	"sh":         "bash",
	"shell":      "bash",
	"zsh":        "bash",
	"yml":        "yaml",
	"golang":     "go",
	"c++":        "cpp",
	"cs":         "csharp",
	"md":         "markdown",
	"dockerfile": "docker",
	"htm":        "html",
	"plaintext":  "text",
	"txt":        "text",
}

// knownLanguages is the fixed set of tags the renderer has highlighting
// support for. Anything outside it collapses to DefaultLanguage.
var knownLanguages = map[string]bool{
	"bash":       true,
	"c":          true,
	"cpp":        true,
	"csharp":     true,
	"css":        true,
	"diff":       true,
	"docker":     true,
	"go":         true,
	"html":       true,
	"java":       true,
	"javascript": true,
	"json":       true,
	"kotlin":     true,
	"lua":        true,
	"markdown":   true,
	"php":        true,
	"python":     true,
	"ruby":       true,
	"rust":       true,
	"scala":      true,
	"sql":        true,
	"swift":      true,
	"toml":       true,
	"typescript": true,
	"xml":        true,
	"yaml":       true,
}

// NormalizeLanguage lowercases a language tag, resolves aliases, and
// collapses unrecognized tags to DefaultLanguage.
func NormalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return DefaultLanguage
	}
	if canonical, ok := languageAliases[tag]; ok {
		tag = canonical
	}
	if !knownLanguages[tag] {
		return DefaultLanguage
	}
	return tag
}
