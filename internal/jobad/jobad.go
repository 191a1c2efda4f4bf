// Package jobad turns a job profile into markdown-like job-ad text.
package jobad

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/yoockh/recruitdesk/internal/models"
)

const frenchTemplate = `# {{.Title}}

## À propos du poste
Nous recherchons un(e) {{.Title}} pour rejoindre notre équipe.

## Responsabilités
- Développer et maintenir des applications
- Collaborer avec l'équipe pour concevoir des solutions techniques
- Participer aux réunions d'équipe et aux revues de code

## Compétences requises
{{range .Skills}}- {{.}}
{{end}}
## Informations complémentaires
- Type de contrat: {{.ContractType}}
- Lieu: {{.Location}}
- Expérience requise: {{.Experience}} ans

Rejoignez notre équipe et participez à des projets passionnants !`

const englishTemplate = `# {{.Title}}

## About the role
We are looking for a {{.Title}} to join our team.

## Responsibilities
- Build and maintain applications
- Work with the team to design technical solutions
- Take part in team meetings and code reviews

## Required skills
{{range .Skills}}- {{.}}
{{end}}
## Additional information
- Contract type: {{.ContractType}}
- Location: {{.Location}}
- Experience required: {{.Experience}} years

Join our team and work on exciting projects!`

var templates = map[string]*template.Template{
	"fr": template.Must(template.New("fr").Parse(frenchTemplate)),
	"en": template.Must(template.New("en").Parse(englishTemplate)),
}

var regenMarkers = map[string]string{
	"fr": "[Contenu régénéré le %s]",
	"en": "[Content regenerated on %s]",
}

type view struct {
	Title        string
	Skills       []string
	ContractType string
	Location     string
	Experience   string
}

// Generator renders job ads for one locale ("fr" or "en").
type Generator struct {
	locale string
}

func NewGenerator(locale string) *Generator {
	locale = strings.ToLower(locale)
	if strings.HasPrefix(locale, "en") {
		return &Generator{locale: "en"}
	}
	return &Generator{locale: "fr"}
}

// Generate fills the template from p; skills come from TechnicalSkills.
func (g *Generator) Generate(p models.Profile) string {
	var buf bytes.Buffer
	_ = templates[g.locale].Execute(&buf, view{
		Title:        p.Title,
		Skills:       models.SplitList(p.TechnicalSkills),
		ContractType: string(p.ContractType),
		Location:     p.Location,
		Experience:   strconv.FormatFloat(p.Experience, 'f', -1, 64),
	})
	return buf.String()
}

// Regenerate re-runs Generate and appends a timestamp marker.
func (g *Generator) Regenerate(p models.Profile, now time.Time) string {
	marker := strings.Replace(regenMarkers[g.locale], "%s", now.Format("02/01/2006 15:04:05"), 1)
	return g.Generate(p) + "\n\n" + marker
}
