// stacktrace.go normalizes runtime captures and preformatted text traces
// into ordered frame sequences.

package sentry

import (
	"runtime"
	"strconv"
	"strings"
)

// Frame describes one call site in a stack trace.
type Frame struct {
	// Filename is the source file path.
	Filename string `json:"filename,omitempty"`

	// Function is the function name without its package qualifier.
	Function string `json:"function,omitempty"`

	// Module is the package path the function belongs to.
	Module string `json:"module,omitempty"`

	// Lineno is the line number within the file.
	Lineno int `json:"lineno,omitempty"`

	// Colno is the column number, when the source format carries one.
	Colno int `json:"colno,omitempty"`
}

// Stacktrace is an ordered frame sequence. Frames run outermost caller
// first: the crash site is the last frame. This matches the wire protocol's
// oldest-to-newest convention and holds for both runtime captures and
// parsed text traces.
type Stacktrace struct {
	Frames []Frame `json:"frames"`
}

// FrameFilter transforms a frame sequence before encoding. It receives the
// full sequence and may reorder, drop, or rewrite frames. The normalizer
// itself never drops frames on its own.
type FrameFilter func([]Frame) []Frame

const maxStackDepth = 64

// CaptureStacktrace captures the calling goroutine's stack. skip counts
// frames to omit from the top: 0 starts at the caller of CaptureStacktrace.
// The filter, when non-nil, is applied to the finished sequence.
//
// Capturing is pure with respect to inputs: the same call site and filter
// produce the same frame sequence.
func CaptureStacktrace(skip int, filter FrameFilter) *Stacktrace {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return &Stacktrace{}
	}

	var frames []Frame
	iter := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := iter.Next()
		if fr.Function != "" {
			module, function := splitFunctionName(fr.Function)
			frames = append(frames, Frame{
				Filename: fr.File,
				Function: function,
				Module:   module,
				Lineno:   fr.Line,
			})
		}
		if !more {
			break
		}
	}

	reverseFrames(frames)
	if filter != nil {
		frames = filter(frames)
	}
	return &Stacktrace{Frames: frames}
}

// ParseStacktrace parses a preformatted text trace, such as the output of
// runtime/debug.Stack, into a frame sequence. Input that does not look like
// a trace yields an empty sequence rather than an error: an unparsable trace
// must never block event capture. The filter, when non-nil, is applied to
// the finished sequence.
//
// Parsing is pure: the same input and filter always yield the same frames.
func ParseStacktrace(trace string, filter FrameFilter) *Stacktrace {
	lines := strings.Split(trace, "\n")

	var frames []Frame
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Goroutine headers like "goroutine 7 [running]:" carry no frame.
		if strings.HasPrefix(trimmed, "goroutine ") && strings.HasSuffix(trimmed, ":") {
			continue
		}

		// Tab-indented lines locate the preceding function line:
		// "\t/src/app/main.go:42 +0x1a".
		if strings.HasPrefix(line, "\t") || strings.HasPrefix(trimmed, "/") {
			if len(frames) > 0 && frames[len(frames)-1].Filename == "" {
				file, lineno := parseLocation(trimmed)
				if file != "" {
					frames[len(frames)-1].Filename = file
					frames[len(frames)-1].Lineno = lineno
				}
			}
			continue
		}

		name := parseFunctionLine(trimmed)
		if name == "" {
			continue
		}

		// Accept unqualified names like "panic" only when a location line
		// follows; this keeps arbitrary prose from parsing as frames.
		if !strings.Contains(name, ".") && !nextLineIsLocation(lines, i) {
			continue
		}

		module, function := splitFunctionName(name)
		frames = append(frames, Frame{Function: function, Module: module})
	}

	reverseFrames(frames)
	if filter != nil {
		frames = filter(frames)
	}
	return &Stacktrace{Frames: frames}
}

// parseFunctionLine extracts the qualified function name from a trace line
// like "main.doSomething(0x1a, 0x2)" or "created by main.main in goroutine 5".
// Returns "" for lines that cannot be a function reference.
func parseFunctionLine(line string) string {
	line = strings.TrimPrefix(line, "created by ")
	if idx := strings.Index(line, " in goroutine "); idx >= 0 {
		line = line[:idx]
	}

	// The argument list, when present, is the trailing parenthesized group.
	// Method receivers like pkg.(*T).M keep their inner parentheses.
	if strings.HasSuffix(line, ")") {
		if idx := strings.LastIndex(line, "("); idx > 0 {
			line = line[:idx]
		}
	}

	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, " \t") {
		return ""
	}
	return line
}

// parseLocation extracts file and line from "/src/app/main.go:42 +0x1a".
func parseLocation(line string) (string, int) {
	if idx := strings.Index(line, " "); idx >= 0 {
		line = line[:idx]
	}
	idx := strings.LastIndex(line, ":")
	if idx <= 0 {
		return "", 0
	}
	lineno, err := strconv.Atoi(line[idx+1:])
	if err != nil {
		return "", 0
	}
	return line[:idx], lineno
}

func nextLineIsLocation(lines []string, i int) bool {
	return i+1 < len(lines) && strings.HasPrefix(lines[i+1], "\t")
}

// splitFunctionName splits a qualified name like
// "github.com/acme/pkg.(*Server).Run" into its package path and bare
// function name. Names with no package qualifier come back with an empty
// module.
func splitFunctionName(name string) (module, function string) {
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return "", name
	}
	dot += slash + 1
	return name[:dot], name[dot+1:]
}

func reverseFrames(frames []Frame) {
	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
}
