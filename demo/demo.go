// Package demo enthält den mitgelieferten Beispielbestand. Er dient als Ersatz, wenn
// die Datenbank leer oder nicht erreichbar ist, und als Quelle für das Demo-Seeding.
package demo

import "herbal-site/models"

func tab(id, title, content string) models.Tab {
	return models.Tab{ID: id, Title: title, Content: content}
}

func plant(id, hebrew, latin, desc string, cat models.PlantCategory, benefits ...string) models.Plant {
	return models.Plant{
		ID:          id,
		HebrewName:  hebrew,
		LatinName:   latin,
		Description: desc,
		Benefits:    benefits,
		Category:    cat,
		Tabs: []models.Tab{
			tab(id+"-usage", "שימוש", "חליטה של כפית צמח מיובש בכוס מים רותחים, 2-3 פעמים ביום."),
			tab(id+"-precautions", "אזהרות", "יש להתייעץ עם איש מקצוע בהריון, בהנקה או בשילוב עם תרופות."),
		},
	}
}

// Plants liefert die Demo-Pflanzen.
func Plants() []models.Plant {
	return []models.Plant{
		plant("demo-chamomile", "קמומיל", "Matricaria chamomilla",
			"פרח עדין המוכר בזכות השפעתו המרגיעה על מערכת העצבים והעיכול.",
			models.CategoryRelaxing, "הרגעה", "שינה", "עיכול"),
		plant("demo-melissa", "מליסה", "Melissa officinalis",
			"עשב לימוני המסייע במתח, חרדה וקשיי הירדמות.",
			models.CategoryRelaxing, "הרגעה", "שינה"),
		plant("demo-passionflower", "פסיפלורה", "Passiflora incarnata",
			"צמח מטפס הידוע בהשפעתו על חרדה ונדודי שינה.",
			models.CategoryRelaxing, "הרגעה", "חרדה"),
		plant("demo-lavender", "לבנדר", "Lavandula angustifolia",
			"צמח ריחני לשימוש באמבטיות, שמנים וחליטות.",
			models.CategoryRelaxing, "שינה", "עור"),
		plant("demo-peppermint", "מנטה", "Mentha piperita",
			"מקלה על נפיחות, גזים ובחילה.",
			models.CategoryDigestive, "עיכול", "בחילה"),
		plant("demo-ginger", "זנגביל", "Zingiber officinale",
			"שורש מחמם התומך בעיכול ובמחזור הדם.",
			models.CategoryDigestive, "עיכול", "בחילה", "חימום"),
		plant("demo-echinacea", "אכינצאה", "Echinacea purpurea",
			"תומכת במערכת החיסון בתחילת הצטננות.",
			models.CategoryImmune, "חיסון", "הצטננות"),
		plant("demo-elderberry", "סמבוק", "Sambucus nigra",
			"פירות ופרחים המשמשים בעונת החורף.",
			models.CategoryImmune, "חיסון", "הצטננות", "שפעת"),
		plant("demo-calendula", "קלנדולה", "Calendula officinalis",
			"פרח כתום לטיפול בעור מגורה ופצעים קלים.",
			models.CategorySkin, "עור", "ריפוי פצעים"),
		plant("demo-turmeric", "כורכום", "Curcuma longa",
			"שורש צהוב נוגד דלקת.",
			models.CategoryGeneral, "דלקת", "מפרקים"),
	}
}

// Articles liefert die Demo-Artikel und Fallbeispiele.
func Articles() []models.Article {
	return []models.Article{
		{
			Type:    models.TypeArticle,
			ID:      "demo-article-sleep",
			Title:   "צמחי מרפא לשינה טובה",
			Summary: "סקירה של הצמחים הנפוצים לשיפור איכות השינה.",
			Date:    "2024-01-15",
			Tags:    []string{"שינה", "הרגעה"},
			Tabs: []models.Tab{
				tab("demo-article-sleep-body", "מאמר", "קמומיל, מליסה ופסיפלורה הם הצמחים הנפוצים ביותר לשינה."),
			},
		},
		{
			Type:    models.TypeArticle,
			ID:      "demo-article-digestion",
			Title:   "עיכול בריא בעזרת צמחים",
			Summary: "איך מנטה וזנגביל תומכים במערכת העיכול.",
			Date:    "2024-02-10",
			Tags:    []string{"עיכול"},
			Tabs: []models.Tab{
				tab("demo-article-digestion-body", "מאמר", "חליטה אחרי הארוחה מקלה על תחושת כבדות."),
			},
		},
		{
			Type:    models.TypeCaseStudy,
			ID:      "demo-case-immune",
			Title:   "מקרה: חיזוק חיסוני בחורף",
			Summary: "ליווי מטופלת עם הצטננויות חוזרות.",
			Date:    "2024-03-05",
			Tags:    []string{"חיסון", "הצטננות"},
			Tabs: []models.Tab{
				tab("demo-case-immune-story", "תיאור המקרה", "שילוב אכינצאה וסמבוק לאורך שמונה שבועות."),
			},
		},
	}
}

// Recipes liefert die Demo-Rezepte.
func Recipes() []models.Recipe {
	return []models.Recipe{
		{
			ID:      "demo-recipe-evening-tea",
			Title:   "תה ערב מרגיע",
			Summary: "תערובת קמומיל ומליסה לפני השינה.",
			Date:    "2024-01-20",
			Tags:    []string{"שינה", "תה"},
			Tabs: []models.Tab{
				tab("demo-recipe-evening-tea-ingredients", "מרכיבים", "- כפית קמומיל\n- כפית מליסה\n- כוס מים רותחים"),
				tab("demo-recipe-evening-tea-method", "אופן ההכנה", "להשרות 7 דקות, לסנן ולשתות חם."),
			},
		},
	}
}

// Content liefert alle Demo-Einträge: Pflanzen, dann Artikel, dann Rezepte.
func Content() models.ContentList {
	out := models.ContentList{}
	for _, p := range Plants() {
		out = append(out, p)
	}
	for _, a := range Articles() {
		out = append(out, a)
	}
	for _, r := range Recipes() {
		out = append(out, r)
	}
	return out
}

// Slides liefert die Demo-Slides der Startseite.
func Slides() []models.Slide {
	return []models.Slide{
		{ID: "demo-slide-welcome", Title: "ברוכים הבאים", Subtitle: "צמחי מרפא לחיים מאוזנים", Text: "ליווי אישי בשילוב ידע מסורתי ומחקר עדכני.", Active: true, Order: 0},
		{ID: "demo-slide-knowledge", Title: "מאגר הידע", Subtitle: "צמחים, מאמרים ומתכונים", Text: "חפשו לפי שם, סוג או תועלת.", Active: true, Order: 1},
		{ID: "demo-slide-clinic", Title: "הקליניקה", Subtitle: "קביעת פגישה", Text: "צרו קשר לתיאום פגישת היכרות.", Active: false, Order: 2},
	}
}

// Dataset liefert den vollständigen Demo-Bestand.
func Dataset() models.Dataset {
	return models.Dataset{
		General: models.DefaultGeneralSettings(),
		Content: Content(),
		Slides:  Slides(),
	}
}
