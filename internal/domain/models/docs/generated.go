package docs

import "time"

// DefaultIcon is used for sections whose icon is missing or unknown.
const DefaultIcon = "FileText"

// Icons lists the icon names a generated section may carry.
var Icons = []string{
	"BookOpen", "Rocket", "Code", "Settings", "Database", "Shield",
	"Zap", "Terminal", "FileText", "HelpCircle", "Layers", "Box",
}

// NormalizeIcon returns icon if it is a known icon name, DefaultIcon otherwise.
func NormalizeIcon(icon string) string {
	for _, known := range Icons {
		if icon == known {
			return icon
		}
	}
	return DefaultIcon
}

// GeneratedDoc is a persisted AI-authored documentation bundle.
type GeneratedDoc struct {
	ID          string    `json:"id" db:"id"`
	Topic       string    `json:"topic" db:"topic"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// GeneratedSection is one page of a GeneratedDoc.
// OrderIndex is dense and 0-based per DocID; Slug is unique per DocID.
type GeneratedSection struct {
	ID         string `json:"id,omitempty" db:"id"`
	DocID      string `json:"doc_id,omitempty" db:"doc_id"`
	Slug       string `json:"slug" db:"slug"`
	Title      string `json:"title" db:"title"`
	Content    string `json:"content" db:"content"` // Markdown
	Icon       string `json:"icon" db:"icon"`
	OrderIndex int    `json:"order_index" db:"order_index"`
}

// GeneratedDocWithSections is a doc with its sections in persisted order.
type GeneratedDocWithSections struct {
	GeneratedDoc
	Sections []GeneratedSection `json:"sections"`
}
