package models

// SeverityLevel represents the severity of an issue
type SeverityLevel uint8

const (
	SeverityLevelLow    SeverityLevel = iota // 🟢 Low priority issues
	SeverityLevelMedium                      // 🟡 Medium priority issues
	SeverityLevelHigh                        // 🔴 High priority issues
)

func (s SeverityLevel) String() string {
	switch s {
	case SeverityLevelLow:
		return "Low"
	case SeverityLevelMedium:
		return "Medium"
	case SeverityLevelHigh:
		return "High"
	default:
		return "Unknown"
	}
}
