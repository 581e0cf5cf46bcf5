package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/auto-applier/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.JobAnalysis{
		Score:       82,
		Reason:      "strong overlap",
		JobTitle:    "SOC Analyst",
		CompanyName: "Acme Corp",
		WorkMode:    types.WorkModeHybrid,
		RoleMatch:   true,
	})
	out := buf.String()

	assert.Contains(t, out, "JOB ANALYSIS")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "82")
	assert.Contains(t, out, "hybrid")
	assert.Contains(t, out, "strong overlap")
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := types.NewProfile()
	profile.Fields["name"] = "Ada Lovelace"
	profile.Roles = []string{"Data Analyst", "SOC Analyst"}

	p.PrintProfile(profile)
	out := buf.String()

	assert.Contains(t, out, "CANDIDATE PROFILE")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Data Analyst")
}

func TestPrintQueries(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQueries([]string{"data analyst jobs remote"})
	assert.Contains(t, buf.String(), "1. data analyst jobs remote")

	buf.Reset()
	p.PrintQueries(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}
