// Package preset loads OpenTabletDriver preset files and matches them
// against live tablet settings.
package preset

// File mirrors the slice of the OpenTabletDriver preset JSON schema the
// matcher needs. Unknown fields are ignored.
type File struct {
	Profiles []Profile `json:"Profiles"`
}

// Profile is one tablet profile inside a preset file.
type Profile struct {
	OutputMode OutputMode `json:"OutputMode"`
	Bindings   Bindings   `json:"Bindings"`
}

// OutputMode carries the serialized output-mode plugin path.
type OutputMode struct {
	Path string `json:"Path"`
}

// Bindings groups the button binding stores of a profile.
type Bindings struct {
	TipButton  *Button  `json:"TipButton"`
	PenButtons []Button `json:"PenButtons"`
	AuxButtons []Button `json:"AuxButtons"`
}

// Button is one bindable button with its plugin settings.
type Button struct {
	Enable   bool      `json:"Enable"`
	Settings []Setting `json:"Settings"`
}

// Setting is a single Property/Value pair of a binding plugin.
type Setting struct {
	Property string `json:"Property"`
	Value    string `json:"Value"`
}

// Preset is the extracted, matchable form of a preset file.
type Preset struct {
	Name            string
	OutputModePath  string
	TipBinding      string
	PenBindings     []string
	ExpressBindings []string
}

// extract reduces a decoded preset file to the values used for matching:
// the output-mode path and the key/button values of enabled bindings.
func extract(name string, f File) *Preset {
	p := &Preset{Name: name}
	if len(f.Profiles) == 0 {
		return p
	}
	profile := f.Profiles[0]
	p.OutputModePath = profile.OutputMode.Path

	for _, btn := range profile.Bindings.PenButtons {
		if v := settingValue(btn, "Button", "Key", "Keys"); v != "" {
			p.PenBindings = append(p.PenBindings, v)
		}
	}
	for _, btn := range profile.Bindings.AuxButtons {
		if v := settingValue(btn, "Key", "Keys"); v != "" {
			p.ExpressBindings = append(p.ExpressBindings, v)
		}
	}
	if tip := profile.Bindings.TipButton; tip != nil {
		p.TipBinding = settingValue(*tip, "Button", "Key")
	}
	return p
}

func settingValue(btn Button, properties ...string) string {
	if !btn.Enable {
		return ""
	}
	for _, s := range btn.Settings {
		for _, prop := range properties {
			if s.Property == prop && s.Value != "" {
				return s.Value
			}
		}
	}
	return ""
}

// ExpressKeySet returns the express binding values as a set.
func (p *Preset) ExpressKeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.ExpressBindings))
	for _, v := range p.ExpressBindings {
		set[v] = struct{}{}
	}
	return set
}

// PenButtonSet returns the pen binding values as a set.
func (p *Preset) PenButtonSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.PenBindings))
	for _, v := range p.PenBindings {
		set[v] = struct{}{}
	}
	return set
}
