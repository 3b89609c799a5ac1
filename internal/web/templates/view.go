// Package templates holds the templ components of the C2M2 filter UI.
//
// The *.templ files are the sources; run `templ generate` after editing
// them to refresh the *_templ.go files.
package templates

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
	"github.com/JonMunkholm/c2m2filter/internal/core"
)

// DashboardParams holds everything the main page renders.
type DashboardParams struct {
	MaxUpload string
	Alert     *core.UserMessage
	Dataset   *core.Dataset     // nil until a workbook is uploaded
	Result    *core.FilterResult // set together with Dataset
	Query     string             // encoded selection, reused by the download link
}

const uploadAccept = ".xlsx," + c2m2.ContentType

func checkboxID(name string, i int) string {
	return name + "-" + strconv.Itoa(i)
}

func isChecked(selected []string, v string) bool {
	return slices.Contains(selected, v)
}

func countLabel(n int, noun string) string {
	return strconv.Itoa(n) + " " + noun
}

func perDomainLabel(d core.Distribution) string {
	return fmt.Sprintf("%.0f–%.0f practices per domain (median %.1f)", d.Min, d.Max, d.Median)
}

func matchedLabel(res *core.FilterResult) string {
	return strconv.Itoa(res.Matched()) + " of " + strconv.Itoa(res.Total)
}

// downloadURL points at the filtered export for the same selection.
func downloadURL(query string) string {
	if query == "" {
		return "/download/filtered"
	}
	return "/download/filtered?" + query
}
