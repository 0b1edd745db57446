package capture

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentGID(t *testing.T) {
	t.Run("returns non-zero id", func(t *testing.T) {
		require.NotZero(t, CurrentGID())
	})

	t.Run("stable within a goroutine", func(t *testing.T) {
		require.Equal(t, CurrentGID(), CurrentGID())
	})

	t.Run("differs across goroutines", func(t *testing.T) {
		main := CurrentGID()

		otherCh := make(chan uint64, 1)
		go func() {
			otherCh <- CurrentGID()
		}()

		require.NotEqual(t, main, <-otherCh)
	})
}

func TestParseGID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   uint64
	}{
		{"running goroutine", "goroutine 123 [running]:", 123},
		{"blocked goroutine", "goroutine 7 [chan receive]:", 7},
		{"large id", "goroutine 18446744073709551615 [running]:", 18446744073709551615},
		{"missing prefix", "thread 123 [running]:", 0},
		{"missing space after id", "goroutine 123", 0},
		{"non-numeric id", "goroutine abc [running]:", 0},
		{"empty input", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseGID([]byte(tt.header)))
		})
	}
}

func TestExtractGoroutine(t *testing.T) {
	dump := []byte(`goroutine 1 [running]:
main.main()
	/src/main.go:10 +0x20

goroutine 42 [chan receive]:
main.worker(0x1)
	/src/worker.go:25 +0x45

goroutine 43 [select]:
main.other()
	/src/other.go:8 +0x11`)

	t.Run("finds middle section", func(t *testing.T) {
		section := extractGoroutine(dump, 42)
		require.NotNil(t, section)
		require.Contains(t, string(section), "goroutine 42 [chan receive]:")
		require.Contains(t, string(section), "main.worker")
		require.NotContains(t, string(section), "main.main")
		require.NotContains(t, string(section), "main.other")
	})

	t.Run("finds first section", func(t *testing.T) {
		section := extractGoroutine(dump, 1)
		require.NotNil(t, section)
		require.Contains(t, string(section), "main.main")
	})

	t.Run("finds last section", func(t *testing.T) {
		section := extractGoroutine(dump, 43)
		require.NotNil(t, section)
		require.Contains(t, string(section), "main.other")
	})

	t.Run("absent goroutine returns nil", func(t *testing.T) {
		require.Nil(t, extractGoroutine(dump, 99))
	})

	t.Run("id match is exact not prefix", func(t *testing.T) {
		// Goroutine 4 must not match the section for goroutine 42.
		require.Nil(t, extractGoroutine(dump, 4))
	})

	t.Run("works on a real runtime dump", func(t *testing.T) {
		gid := CurrentGID()

		buf := make([]byte, 1<<20)
		n := runtime.Stack(buf, true)

		section := extractGoroutine(buf[:n], gid)
		require.NotNil(t, section)
		require.Contains(t, string(section), "TestExtractGoroutine")
	})
}
