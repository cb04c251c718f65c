// Package name generates storage names for uploaded files.
package name

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Generate derives a storage name from the upload instant and the original
// filename. Only the extension of the original name is kept, lower-cased.
// Format: <epoch-millis>_<8 hex random>.<ext>
// Example: 1701432000000_a1b2c3d4.mp4
func Generate(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		// Fallback to timestamp only if crypto/rand fails
		return fmt.Sprintf("%d%s", now.UnixMilli(), ext)
	}
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), hex.EncodeToString(random), ext)
}
