package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityError, Line: 3, Section: "Song", Message: "bad key"}
	assert.Equal(t, "error line 3 [Song]: bad key", d.String())

	d = Diagnostic{Severity: SeverityInfo, Section: "ExpertSingle", Time: 100, HasTime: true, Message: "moved"}
	assert.Equal(t, "info [ExpertSingle] @100: moved", d.String())

	assert.Equal(t, "severity(9)", Severity(9).String())
}

func TestCount(t *testing.T) {
	diags := []Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityInfo}, {Severity: SeverityWarning}}
	assert.False(t, HasErrors(diags))
	assert.Equal(t, 2, Count(diags, SeverityWarning))

	diags = append(diags, Diagnostic{Severity: SeverityError})
	assert.True(t, HasErrors(diags))
}
