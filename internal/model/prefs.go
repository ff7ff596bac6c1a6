package model

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences replaces the free-form settings map of the dashboard with
// named fields. DefaultPreferences documents the defaults.
type Preferences struct {
	Theme               Theme  `json:"theme"`
	AccentColor         string `json:"accentColor"`
	Notifications       bool   `json:"notifications"`
	SoundEnabled        bool   `json:"soundEnabled"`
	UserName            string `json:"userName"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeLight,
		AccentColor:   "blue",
		Notifications: true,
		SoundEnabled:  true,
	}
}
