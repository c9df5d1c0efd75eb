package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/rendercv-live/internal/render"
	"github.com/jonathan/rendercv-live/internal/repair"
)

func TestPrintRepairReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	res := repair.Fix("design:\n  header:\n    small_caps_for_name: true\n  section_titles:\n    type: fancy\n")
	p.PrintRepairReport(res)
	output := buf.String()

	assert.Contains(t, output, "YAML REPAIR")
	assert.Contains(t, output, "structural")
	assert.Contains(t, output, "- design.header.small_caps_for_name")
	assert.Contains(t, output, "~ design.section_titles.type")
	assert.Contains(t, output, `"fancy" → "with-partial-line"`)
}

func TestPrintRepairReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRepairReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRepairReport_TruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	res := &repair.Result{Mode: repair.ModeTextual}
	for i := 0; i < maxItemsToShow+3; i++ {
		res.Changes = append(res.Changes, repair.Change{Path: fmt.Sprintf("field_%d", i), Action: repair.KindRemove})
	}
	p.PrintRepairReport(res)

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintValidationErrors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintValidationErrors([]string{"Field 'cv.email': not a valid email address"})
	output := buf.String()

	assert.Contains(t, output, "VALIDATION FAILED")
	assert.Contains(t, output, "Found 1 validation errors")
	assert.Contains(t, output, "cv.email")
}

func TestPrintValidationErrors_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidationErrors(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRenderSummary(&render.Document{
		PDF:         []byte("%PDF"),
		IconWarning: true,
		Attempts:    2,
		Repair:      &repair.Result{Mode: repair.ModeTextual},
	}, "out.pdf")
	output := buf.String()

	assert.Contains(t, output, "out.pdf")
	assert.Contains(t, output, "4 bytes")
	assert.Contains(t, output, "Attempts:  2")
	assert.Contains(t, output, "textual pass")
	assert.Contains(t, output, "RENDERCV_FONT_PATH")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}
