package services

import (
	"strings"

	"github.com/danpasecinic/kiln"
)

const generatedHeader = "// generated by kiln"

type ComplianceReport struct {
	Path     string
	Passed   bool
	Findings []string
}

// ComplianceChecker attaches compliance metadata to generated files. It
// gets the code validator through field injection.
type ComplianceChecker struct {
	validator *CodeValidator
}

func (c *ComplianceChecker) InjectDependencies(deps kiln.Dependencies) error {
	v, err := kiln.Dep(deps, CodeValidatorToken)
	if err != nil {
		return err
	}
	c.validator = v
	return nil
}

func (c *ComplianceChecker) Check(f File) ComplianceReport {
	report := ComplianceReport{Path: f.Path}

	if !strings.HasPrefix(f.Content, generatedHeader) {
		report.Findings = append(report.Findings, "missing generated-file header")
	}
	for _, issue := range c.validator.Validate(f) {
		report.Findings = append(report.Findings, issue.String())
	}

	report.Passed = len(report.Findings) == 0
	return report
}
