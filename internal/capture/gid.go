package capture

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// CurrentGID returns the calling goroutine's runtime id.
//
// The id is parsed from the header line of a single-goroutine stack dump
// ("goroutine 123 [running]:"). The runtime offers no direct accessor, but
// the header format has been stable across Go releases and this is the
// conventional way runtimes and tracing libraries obtain it. Called once per
// worker at registration, never on the hot path.
func CurrentGID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	return parseGID(buf[:n])
}

// parseGID extracts the goroutine id from a dump header. Returns 0 when the
// header is malformed.
func parseGID(header []byte) uint64 {
	if !bytes.HasPrefix(header, goroutinePrefix) {
		return 0
	}

	rest := header[len(goroutinePrefix):]
	end := bytes.IndexByte(rest, ' ')
	if end <= 0 {
		return 0
	}

	gid, err := strconv.ParseUint(string(rest[:end]), 10, 64)
	if err != nil {
		return 0
	}

	return gid
}

// extractGoroutine returns the section of an all-goroutine dump belonging to
// gid, including its header line, or nil when the goroutine is absent.
//
// Sections in a dump are separated by blank lines:
//
//	goroutine 42 [chan receive]:
//	main.worker(...)
//		/src/main.go:17 +0x2b
//
//	goroutine 43 [running]:
//	...
func extractGoroutine(dump []byte, gid uint64) []byte {
	header := []byte("goroutine " + strconv.FormatUint(gid, 10) + " ")

	for section := range bytes.SplitSeq(dump, []byte("\n\n")) {
		if bytes.HasPrefix(section, header) {
			return section
		}
	}

	return nil
}
