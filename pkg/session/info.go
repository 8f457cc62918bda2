package session

// Info mirrors the public application info payload.
type Info struct {
	Application Application `json:"application" yaml:"application"`
	User        *User       `json:"user,omitempty" yaml:"user,omitempty"`
}

// Application describes the running application.
type Application struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Lang        string `json:"lang,omitempty" yaml:"lang,omitempty"`
	Theme       string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Mode        string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// User describes the signed-in user.
type User struct {
	ID        int64  `json:"id" yaml:"id"`
	Login     string `json:"login" yaml:"login"`
	Name      string `json:"name" yaml:"name"`
	NameField string `json:"nameField,omitempty" yaml:"nameField,omitempty"`
	Lang      string `json:"lang,omitempty" yaml:"lang,omitempty"`
	Group     string `json:"group,omitempty" yaml:"group,omitempty"`
	Technical bool   `json:"technical,omitempty" yaml:"technical,omitempty"`
}

// Lang returns the user language, falling back to the application language.
func (i *Info) Lang() string {
	if i == nil {
		return ""
	}
	if i.User != nil && i.User.Lang != "" {
		return i.User.Lang
	}
	return i.Application.Lang
}
