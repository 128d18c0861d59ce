package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"clock": func(ms int64) string {
			return time.UnixMilli(ms).Format("15:04:05")
		},
		"hours": func(h float64) string {
			return fmt.Sprintf("%.2f", h)
		},
		"upper": strings.ToUpper,
	}
}
