package models

// GeneralSettings ist der einzige Einstellungs-Datensatz der Seite.
type GeneralSettings struct {
	SiteName         string `json:"siteName"`
	PractitionerName string `json:"practitionerName"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	AboutShort       string `json:"aboutShort"`
	AboutLong        string `json:"aboutLong"`

	GeminiAPIKey   string `json:"geminiApiKey,omitempty"`
	UnsplashAPIKey string `json:"unsplashApiKey,omitempty"`
	AdminNotes     string `json:"adminNotes,omitempty"`
	AdminUsername  string `json:"adminUsername,omitempty"`
	AdminPassword  string `json:"adminPassword,omitempty"`
}

// DefaultGeneralSettings wird verwendet, solange kein Datensatz gespeichert ist.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		SiteName:         "שורש - צמחי מרפא",
		PractitionerName: "נועה לוי",
		Phone:            "050-0000000",
		Email:            "info@example.co.il",
		Address:          "תל אביב",
		AboutShort:       "הרבליסטית קלינית המלווה מטופלים בעזרת צמחי מרפא.",
		AboutLong:        "ליווי אישי המשלב ידע מסורתי ומחקר עדכני על צמחי מרפא, תזונה ואורח חיים.",
	}
}

// PublicSettings ist die Sicht auf die Einstellungen ohne Schlüssel und Zugangsdaten.
type PublicSettings struct {
	SiteName         string `json:"siteName"`
	PractitionerName string `json:"practitionerName"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	AboutShort       string `json:"aboutShort"`
	AboutLong        string `json:"aboutLong"`
}

// Public entfernt alle vertraulichen Felder.
func (g GeneralSettings) Public() PublicSettings {
	return PublicSettings{
		SiteName:         g.SiteName,
		PractitionerName: g.PractitionerName,
		Phone:            g.Phone,
		Email:            g.Email,
		Address:          g.Address,
		AboutShort:       g.AboutShort,
		AboutLong:        g.AboutLong,
	}
}
