package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

// Format returns a multi-line message for terminal display.
func (e *LumenError) Format() string {
	var b strings.Builder

	b.WriteString(color(colorRed, color(colorBold, "ERROR ")))
	if e.Code != "" {
		b.WriteString(e.Code + ": ")
	}
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Detail != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Detail)
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		b.WriteString("\n  ")
		b.WriteString(color(colorGray, "caused by: "+e.Wrapped.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatCompact returns a single-line representation.
func (e *LumenError) FormatCompact() string {
	if e.Category != "" {
		return fmt.Sprintf("[%s] %s", e.Category, e.Error())
	}
	return e.Error()
}

// FormatJSON returns the error as a JSON document.
func (e *LumenError) FormatJSON() string {
	payload := map[string]string{
		"code":     e.Code,
		"category": string(e.Category),
		"message":  e.Message,
	}
	if e.Detail != "" {
		payload["detail"] = e.Detail
	}
	if e.Wrapped != nil {
		payload["cause"] = e.Wrapped.Error()
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

// PrintError writes err to stderr, formatted when it is a LumenError.
func PrintError(err error) {
	if err == nil {
		return
	}
	if le, ok := err.(*LumenError); ok {
		fmt.Fprint(os.Stderr, le.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", color(colorRed, color(colorBold, "ERROR")), err)
}
