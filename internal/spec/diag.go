package spec

import (
	"github.com/hashicorp/hcl/v2"
)

// specFilename is the filename reported in diagnostic ranges; parsed lines
// come from callers, not files.
const specFilename = "<spec>"

// lineRange builds a single-line diagnostic range over bytes [start, end)
// of the input line.
func lineRange(start, end int) *hcl.Range {
	return &hcl.Range{
		Filename: specFilename,
		Start:    hcl.Pos{Line: 1, Column: start + 1, Byte: start},
		End:      hcl.Pos{Line: 1, Column: end + 1, Byte: end},
	}
}

func errDiag(summary, detail string, start, end int) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  lineRange(start, end),
	}
}

func warnDiag(summary, detail string, start, end int) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagWarning,
		Summary:  summary,
		Detail:   detail,
		Subject:  lineRange(start, end),
	}
}