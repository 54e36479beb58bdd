package render

import (
	"strconv"
	"strings"
	"time"
)

// FormatString expands #{session_name} and the strftime specifiers named
// in (%H %M %Y %m %d) against now, passing anything else
// through literally.
func FormatString(tmpl, sessionName string, now time.Time) string {
	s := strings.ReplaceAll(tmpl, "#{session_name}", sessionName)
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		spec := s[i+1]
		if repl, ok := strftimeSpec(spec, now); ok {
			b.WriteString(repl)
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func strftimeSpec(spec byte, now time.Time) (string, bool) {
	switch spec {
	case 'H':
		return pad2(now.Hour()), true
	case 'M':
		return pad2(now.Minute()), true
	case 'Y':
		return strconv.Itoa(now.Year()), true
	case 'm':
		return pad2(int(now.Month())), true
	case 'd':
		return pad2(now.Day()), true
	}
	return "", false
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
