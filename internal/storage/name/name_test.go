package name

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"
)

var namePattern = regexp.MustCompile(`^\d+_[0-9a-f]{8}(\..+)?$`)

func TestGenerate(t *testing.T) {
	now := time.UnixMilli(1701432000000)

	t.Run("encodes timestamp and random suffix", func(t *testing.T) {
		got := Generate("clip.mp4", now)
		if !namePattern.MatchString(got) {
			t.Errorf("Generate() = %q, want match for %s", got, namePattern)
		}
		if !strings.HasPrefix(got, "1701432000000_") {
			t.Errorf("Generate() = %q, want prefix 1701432000000_", got)
		}
	})

	t.Run("lower-cases the extension", func(t *testing.T) {
		got := Generate("clip.MP4", now)
		if !strings.HasSuffix(got, ".mp4") {
			t.Errorf("Generate() = %q, want suffix .mp4", got)
		}
	})

	t.Run("keeps only the last extension", func(t *testing.T) {
		got := Generate("archive.tar.WEBM", now)
		if !strings.HasSuffix(got, ".webm") {
			t.Errorf("Generate() = %q, want suffix .webm", got)
		}
		if strings.Contains(got, ".tar") {
			t.Errorf("Generate() = %q, should not keep intermediate extensions", got)
		}
	})

	t.Run("no extension yields no trailing dot", func(t *testing.T) {
		got := Generate("clip", now)
		if strings.Contains(got, ".") {
			t.Errorf("Generate() = %q, want no extension", got)
		}
	})
}

func TestGenerate_Uniqueness(t *testing.T) {
	// All calls share the same instant; the random suffix alone must keep
	// names pairwise distinct.
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := Generate(fmt.Sprintf("clip%d.mp4", i), now)
		if seen[n] {
			t.Fatalf("duplicate name generated: %s", n)
		}
		seen[n] = true
	}
}
