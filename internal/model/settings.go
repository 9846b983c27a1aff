package model

// Profile zoom bounds.
const (
	MinProfileZoom = 1.0
	MaxProfileZoom = 3.0
)

// UserSettings holds process-wide preferences.
type UserSettings struct {
	AppTitle     string  `json:"appTitle"`
	ProfileImage *string `json:"profileImage"`
	AppIcon      *string `json:"appIcon"`
	ThemeColor   string  `json:"themeColor"`
	ProfileZoom  float64 `json:"profileZoom"`
	UserName     string  `json:"userName"`
	BirthDate    string  `json:"birthDate"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() UserSettings {
	return UserSettings{
		AppTitle:    "OnTarget",
		ThemeColor:  "#10b981",
		ProfileZoom: 1,
	}
}

// ClampZoom limits zoom to [MinProfileZoom, MaxProfileZoom]. Unset (zero or
// negative) values become MinProfileZoom.
func ClampZoom(zoom float64) float64 {
	return min(MaxProfileZoom, max(MinProfileZoom, zoom))
}
