package theme

// Theme is an immutable snapshot of the site's look. Values are passed to
// templates as-is.
type Theme struct {
	SiteName      string `json:"site_name"`
	Logo          string `json:"logo"`
	BgColor       string `json:"bg_color"`
	HeaderBg      string `json:"header_bg"`
	HeaderText    string `json:"header_text"`
	Primary       string `json:"primary"`
	PrimaryText   string `json:"primary_text"`
	Secondary     string `json:"secondary"`
	SecondaryText string `json:"secondary_text"`
	FooterBg      string `json:"footer_bg"`
	FooterText    string `json:"footer_text"`
	ButtonRadius  string `json:"button_radius"`
}

// Keys lists the editable form keys in display order
var Keys = []string{
	"site_name", "logo", "bg_color", "header_bg", "header_text", "primary",
	"primary_text", "secondary", "secondary_text", "footer_bg", "footer_text", "button_radius",
}

func Default() Theme {
	return Theme{
		SiteName:      "SOSCozinhas",
		Logo:          "uploads/hero/logo.png",
		BgColor:       "#f8fafc",
		HeaderBg:      "#ffffff",
		HeaderText:    "#0f172a",
		Primary:       "#16a34a",
		PrimaryText:   "#ffffff",
		Secondary:     "#2563eb",
		SecondaryText: "#ffffff",
		FooterBg:      "#111827",
		FooterText:    "#e5e7eb",
		ButtonRadius:  "0.375rem",
	}
}

func (t *Theme) field(key string) *string {
	switch key {
	case "site_name":
		return &t.SiteName
	case "logo":
		return &t.Logo
	case "bg_color":
		return &t.BgColor
	case "header_bg":
		return &t.HeaderBg
	case "header_text":
		return &t.HeaderText
	case "primary":
		return &t.Primary
	case "primary_text":
		return &t.PrimaryText
	case "secondary":
		return &t.Secondary
	case "secondary_text":
		return &t.SecondaryText
	case "footer_bg":
		return &t.FooterBg
	case "footer_text":
		return &t.FooterText
	case "button_radius":
		return &t.ButtonRadius
	}
	return nil
}

// Get returns the value for a form key, or "" for unknown keys.
func (t Theme) Get(key string) string {
	if f := t.field(key); f != nil {
		return *f
	}
	return ""
}

// With returns a copy with the given keys replaced. Unknown keys are ignored.
func (t Theme) With(values map[string]string) Theme {
	for key, value := range values {
		if f := t.field(key); f != nil {
			*f = value
		}
	}
	return t
}
