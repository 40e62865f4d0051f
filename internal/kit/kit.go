// Package kit reconciles the currently tracked inventory against an expected
// template set, e.g. to check a field kit for completeness before heading out.
package kit

import "sort"

// Report is the outcome of one reconciliation. It is ephemeral display state;
// nothing is persisted.
type Report struct {
	Missing       []string `json:"missing"`
	Extra         []string `json:"extra"`
	Matched       int      `json:"matched"`
	TotalTemplate int      `json:"total_template"`
	Coverage      int      `json:"coverage"`
}

// Reconcile compares the template's codes against the currently present ones.
// Coverage is integer percent of template codes present (0 for an empty
// template).
func Reconcile(template []TemplateEntry, current []string) Report {
	templateCodes := make(map[string]bool, len(template))
	for _, e := range template {
		templateCodes[e.Code] = true
	}
	currentCodes := make(map[string]bool, len(current))
	for _, c := range current {
		currentCodes[c] = true
	}

	report := Report{
		Missing:       []string{},
		Extra:         []string{},
		TotalTemplate: len(templateCodes),
	}

	for code := range templateCodes {
		if currentCodes[code] {
			report.Matched++
		} else {
			report.Missing = append(report.Missing, code)
		}
	}
	for code := range currentCodes {
		if !templateCodes[code] {
			report.Extra = append(report.Extra, code)
		}
	}

	sort.Strings(report.Missing)
	sort.Strings(report.Extra)

	if report.TotalTemplate > 0 {
		report.Coverage = report.Matched * 100 / report.TotalTemplate
	}
	return report
}
