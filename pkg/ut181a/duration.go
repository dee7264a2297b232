package ut181a

import (
	"fmt"
	"time"
)

// FormatDuration renders d as H:MM:SS. Hours are not padded nor bounded, sub-second parts are truncated.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
