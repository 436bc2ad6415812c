package objects

// LanguageObject describes a translation language, identified by its
// repository language code (for example "ger-DE").
type LanguageObject struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`

	Action Action `json:"action,omitempty"`

	// Assigned by the repository after reconciliation.
	ID int64 `json:"id,omitempty"`

	mapper *LanguageMapper
}

// NewLanguageObject returns a language object for the given code. The name is
// looked up in the built-in table at mapping time.
func NewLanguageObject(code string) *LanguageObject {
	return &LanguageObject{Code: code}
}

func (o *LanguageObject) Kind() string          { return "language" }
func (o *LanguageObject) DesiredAction() Action { return o.Action }

// EffectiveEnabled reports whether the language should be enabled. Unset
// means yes.
func (o *LanguageObject) EffectiveEnabled() bool {
	if o.Enabled == nil {
		return true
	}
	return *o.Enabled
}

// EffectiveName returns the explicit name or the built-in one for the code.
func (o *LanguageObject) EffectiveName() (string, error) {
	if o.Name != "" {
		return o.Name, nil
	}
	name, ok := languageNames[o.Code]
	if !ok {
		return "", &LanguageNotFoundError{Code: o.Code}
	}
	return name, nil
}

// Mapper returns the translator bound to this object.
func (o *LanguageObject) Mapper() *LanguageMapper {
	if o.mapper == nil {
		o.mapper = &LanguageMapper{object: o}
	}
	return o.mapper
}

// languageNames maps the repository language codes we commonly transfer to
// their English display names. Codes outside the table need an explicit Name
// on the object.
var languageNames = map[string]string{
	"ara-SA": "Arabic",
	"cat-ES": "Catalan",
	"chi-CN": "Simplified Chinese",
	"chi-TW": "Traditional Chinese",
	"cro-HR": "Croatian",
	"cze-CZ": "Czech",
	"dan-DK": "Danish",
	"dut-NL": "Dutch",
	"ell-GR": "Greek",
	"eng-AU": "English (Australia)",
	"eng-CA": "English (Canada)",
	"eng-GB": "English (United Kingdom)",
	"eng-NZ": "English (New Zealand)",
	"eng-US": "English (American)",
	"epo-EO": "Esperanto",
	"est-EE": "Estonian",
	"fin-FI": "Finnish",
	"fre-BE": "French (Belgium)",
	"fre-CA": "French (Canada)",
	"fre-FR": "French (France)",
	"ger-DE": "German",
	"heb-IL": "Hebrew",
	"hin-IN": "Hindi",
	"hun-HU": "Hungarian",
	"ind-ID": "Indonesian",
	"ita-IT": "Italian",
	"jpn-JP": "Japanese",
	"kor-KR": "Korean",
	"nno-NO": "Norwegian (Nynorsk)",
	"nor-NO": "Norwegian (Bokmal)",
	"pol-PL": "Polish",
	"por-BR": "Portuguese (Brazil)",
	"por-PT": "Portuguese (Portugal)",
	"rum-RO": "Romanian",
	"rus-RU": "Russian",
	"ser-SR": "Serbian",
	"slk-SK": "Slovak",
	"slo-SI": "Slovenian",
	"spa-ES": "Spanish (Spain)",
	"spa-MX": "Spanish (Mexico)",
	"swe-SE": "Swedish",
	"tur-TR": "Turkish",
	"ukr-UA": "Ukrainian",
	"vie-VN": "Vietnamese",
}
