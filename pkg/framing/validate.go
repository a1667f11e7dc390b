package framing

import "fmt"

// Dimension limits in millimeters. Outside this range the geometry is
// assumed to be a modeling error rather than a renderable product.
const (
	MinDimensionMM = 1.0
	MaxDimensionMM = 10000.0
)

// Status classifies a validation outcome
type Status int

const (
	StatusValid Status = iota
	StatusWarning
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusWarning:
		return "warning"
	default:
		return "invalid"
	}
}

// Issue identifies why a check failed or warned
type Issue int

const (
	IssueNone Issue = iota
	IssueNoGeometry
	IssueNonPositiveDimension
	IssueTooSmall
	IssueTooLarge
	IssueResolutionTooSmall
	IssueResolutionTooLarge
	IssueResolutionLarge
)

// Check is a single validation outcome. Warnings describe renders that will
// work but deserve attention; only StatusInvalid stops a group.
type Check struct {
	Status  Status
	Issue   Issue
	Message string
}

// OK reports whether the checked group may continue to render
func (c Check) OK() bool {
	return c.Status != StatusInvalid
}

// Err materializes an invalid check as an error attributed to a group.
// Valid and warning checks return nil.
func (c Check) Err(group string) error {
	if c.Status != StatusInvalid {
		return nil
	}
	return &ValidationError{Group: group, Issue: c.Issue, Message: c.Message}
}

func valid() Check {
	return Check{Status: StatusValid}
}

func invalid(issue Issue, format string, args ...any) Check {
	return Check{Status: StatusInvalid, Issue: issue, Message: fmt.Sprintf(format, args...)}
}

func warning(issue Issue, format string, args ...any) Check {
	return Check{Status: StatusWarning, Issue: issue, Message: fmt.Sprintf(format, args...)}
}

// CheckDimensions validates a group's real-world size in millimeters.
// Sub-millimeter width or height is treated as a modeling error; depth may
// be paper thin.
func CheckDimensions(widthMM, heightMM, depthMM float64) Check {
	if widthMM <= 0 || heightMM <= 0 || depthMM <= 0 {
		return invalid(IssueNonPositiveDimension,
			"invalid dimensions: %.2fx%.2fx%.2fmm", widthMM, heightMM, depthMM)
	}
	if widthMM < MinDimensionMM || heightMM < MinDimensionMM {
		return invalid(IssueTooSmall,
			"too small (< 1mm): %.2fx%.2fmm", widthMM, heightMM)
	}
	if widthMM > MaxDimensionMM || heightMM > MaxDimensionMM || depthMM > MaxDimensionMM {
		return invalid(IssueTooLarge,
			"too large (> 10m): %.1fx%.1fx%.1fmm", widthMM, heightMM, depthMM)
	}
	return valid()
}

// CheckResolution validates pixel dimensions against renderer limits
func CheckResolution(res Resolution) Check {
	if res.Width > MaxResolution || res.Height > MaxResolution {
		return invalid(IssueResolutionTooLarge,
			"resolution too large: %spx (max %dpx per axis)", res, MaxResolution)
	}
	if res.Width < 1 || res.Height < 1 {
		return invalid(IssueResolutionTooSmall, "resolution too small: %spx", res)
	}
	if res.Width > WarnResolution || res.Height > WarnResolution {
		return warning(IssueResolutionLarge,
			"large resolution %spx may render slowly", res)
	}
	return valid()
}

// ValidationError is a failed check attributed to a group
type ValidationError struct {
	Group   string
	Issue   Issue
	Message string
}

func (e *ValidationError) Error() string {
	if e.Group == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Group, e.Message)
}
