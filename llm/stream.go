package llm

import "strings"

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// LineFramer splits a chunked text stream into newline-terminated lines.
// Chunk boundaries need not line up with anything; the unterminated tail of
// one chunk is carried over and prefixed to the next.
type LineFramer struct {
	pending strings.Builder
}

// Push appends chunk and returns every line it completes, without the
// trailing newline.
func (f *LineFramer) Push(chunk string) []string {
	var lines []string
	for {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			break
		}
		if f.pending.Len() > 0 {
			f.pending.WriteString(chunk[:i])
			lines = append(lines, f.pending.String())
			f.pending.Reset()
		} else {
			lines = append(lines, chunk[:i])
		}
		chunk = chunk[i+1:]
	}
	f.pending.WriteString(chunk)
	return lines
}

// Flush returns the retained fragment as a final line. ok is false when
// nothing was pending.
func (f *LineFramer) Flush() (line string, ok bool) {
	if f.pending.Len() == 0 {
		return "", false
	}
	line = f.pending.String()
	f.pending.Reset()
	return line, true
}

// DataPayload extracts the payload of an SSE "data:" line. Exactly one space
// after the colon is dropped; any further spaces belong to the payload. Other
// fields, comments and blank lines yield ok=false.
func DataPayload(line string) (payload string, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	payload = line[len(dataPrefix):]
	if len(payload) > 0 && payload[0] == ' ' {
		payload = payload[1:]
	}
	return payload, true
}
