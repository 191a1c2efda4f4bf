package jobad

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yoockh/recruitdesk/internal/models"
)

func sampleProfile() models.Profile {
	return models.Profile{
		Title:           "Développeur Go",
		ContractType:    models.ContractCDI,
		Location:        "Lyon",
		Experience:      3,
		TechnicalSkills: "Go, PostgreSQL,Kubernetes, ",
	}
}

func TestGenerate_TitleHeadingAndSkillBullets(t *testing.T) {
	text := NewGenerator("fr").Generate(sampleProfile())
	lines := strings.Split(text, "\n")

	assert.Equal(t, "# Développeur Go", lines[0])
	for _, skill := range []string{"Go", "PostgreSQL", "Kubernetes"} {
		assert.Contains(t, lines, "- "+skill)
	}
	assert.Contains(t, text, "- Type de contrat: CDI")
	assert.Contains(t, text, "- Lieu: Lyon")
	assert.Contains(t, text, "- Expérience requise: 3 ans")
	assert.NotContains(t, lines, "- ")
}

func TestGenerate_NoSkills(t *testing.T) {
	p := sampleProfile()
	p.TechnicalSkills = ""
	text := NewGenerator("fr").Generate(p)
	assert.Contains(t, text, "## Compétences requises\n\n## Informations complémentaires")
}

func TestGenerate_English(t *testing.T) {
	p := sampleProfile()
	p.Experience = 2.5
	text := NewGenerator("en-GB").Generate(p)
	assert.True(t, strings.HasPrefix(text, "# Développeur Go\n"))
	assert.Contains(t, text, "- Experience required: 2.5 years")
}

func TestRegenerate_AppendsMarker(t *testing.T) {
	g := NewGenerator("fr")
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	text := g.Regenerate(sampleProfile(), now)
	assert.True(t, strings.HasPrefix(text, g.Generate(sampleProfile())))
	assert.True(t, strings.HasSuffix(text, "\n\n[Contenu régénéré le 02/01/2025 15:04:05]"))
}
