package pdfrag

import (
	"regexp"
	"strconv"
	"strings"
)

// Chunking defaults. Roughly 1500 characters keeps chunks comfortably under
// typical embedding model limits while staying large enough to be useful
// retrieval context.
const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 200
)

// ChunkOptions configures SplitMarkdown.
type ChunkOptions struct {
	// MaxChars is the maximum chunk length in characters.
	// Defaults to DefaultChunkSize.
	MaxChars int

	// Overlap is the number of trailing characters carried over into the
	// next chunk for context continuity. Defaults to DefaultChunkOverlap.
	Overlap int
}

// TextChunk is a chunk of markdown with line positions and heading context.
type TextChunk struct {
	Content   string
	StartLine int // 1-based, inclusive
	EndLine   int // 1-based, inclusive
	Headers   map[string]string
}

var chunkHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// SplitMarkdown splits markdown content into chunks suitable for embedding.
// Chunks break at headings and never exceed MaxChars; heading context
// (h1..h6 hierarchy) is attached to every chunk. Consecutive chunks within
// the same section share Overlap characters of trailing context.
func SplitMarkdown(markdown string, opts ChunkOptions) []TextChunk {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}
	overlap := opts.Overlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars / 4
	}

	lines := strings.Split(markdown, "\n")

	var chunks []TextChunk
	headers := make(map[string]string)

	var cur strings.Builder
	curStart := 1
	curEnd := 0

	flush := func() {
		content := strings.TrimSpace(cur.String())
		if content != "" {
			chunks = append(chunks, TextChunk{
				Content:   content,
				StartLine: curStart,
				EndLine:   curEnd,
				Headers:   copyHeaders(headers),
			})
		}
		cur.Reset()
	}

	inCodeBlock := false

	for i, line := range lines {
		lineNum := i + 1

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
		}

		// Headings outside code blocks start a new chunk and update context.
		if !inCodeBlock {
			if m := chunkHeadingRe.FindStringSubmatch(line); m != nil {
				flush()
				setHeader(headers, len(m[1]), strings.TrimSpace(m[2]))
				curStart = lineNum
				curEnd = lineNum
				cur.WriteString(line)
				cur.WriteString("\n")
				continue
			}
		}

		// Split when the chunk would exceed the size limit. Carry overlap
		// from the end of the previous chunk for context continuity.
		if cur.Len()+len(line)+1 > maxChars && strings.TrimSpace(cur.String()) != "" {
			tail := overlapTail(cur.String(), overlap)
			flush()
			curStart = lineNum
			if tail != "" {
				cur.WriteString(tail)
				cur.WriteString("\n")
			}
		}

		if cur.Len() == 0 {
			curStart = lineNum
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		curEnd = lineNum
	}

	flush()

	return chunks
}

// setHeader records a heading at the given level and clears deeper levels.
func setHeader(headers map[string]string, level int, title string) {
	headers["h"+strconv.Itoa(level)] = title
	for l := level + 1; l <= 6; l++ {
		delete(headers, "h"+strconv.Itoa(l))
	}
}

// copyHeaders returns a copy of the header context, or nil if empty.
func copyHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}

// overlapTail returns the last whole lines of s totaling at most n characters.
func overlapTail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = strings.TrimRight(s, "\n")
	if len(s) <= n {
		return s
	}

	lines := strings.Split(s, "\n")
	var tail []string
	size := 0
	for i := len(lines) - 1; i >= 0; i-- {
		size += len(lines[i]) + 1
		if size > n {
			break
		}
		tail = append([]string{lines[i]}, tail...)
	}
	return strings.TrimSpace(strings.Join(tail, "\n"))
}
