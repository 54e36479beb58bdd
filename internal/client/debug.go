package client

import "fmt"

// formatDebugKey formats a single input byte for the debug-keys echo.
// Grounded on internal/overlay/util.FormatDebugKey.
func formatDebugKey(b byte) string {
	switch b {
	case 0x1B:
		return "esc"
	case 0x0D:
		return "cr"
	case 0x0A:
		return "lf"
	case 0x09:
		return "tab"
	case 0x7F:
		return "del"
	}
	if b < 0x20 {
		return fmt.Sprintf("0x%02x", b)
	}
	if b >= 0x20 && b <= 0x7E {
		return string([]byte{b})
	}
	return fmt.Sprintf("0x%02x", b)
}
