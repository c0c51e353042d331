// Package exmerge merges the rows of two data workbooks into a sheet of a template workbook.
package exmerge

// DefaultTargetSheet is the template sheet that receives merged rows.
const DefaultTargetSheet = "GA RAW"

// Options configures the merge service.
type Options struct {
	// TargetSheet is the template sheet whose contents are replaced by merge.
	// The match is exact and case-sensitive.
	TargetSheet string
}

// DefaultOptions returns default merge options.
func DefaultOptions() Options {
	return Options{
		TargetSheet: DefaultTargetSheet,
	}
}

// targetSheet returns the configured sheet, falling back to the default.
func (o Options) targetSheet() string {
	if o.TargetSheet != "" {
		return o.TargetSheet
	}
	return DefaultTargetSheet
}
