package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fixed vocabulary of technology tokens, grouped roughly by concern:
// languages, cloud platforms, infra tooling, data/BI, ML, web frameworks,
// datastores, collaboration tools, API styles and methodologies. Matching is
// case-insensitive; output is canonicalized to this casing.
var skillVocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "SQL", "R", "Scala", "C++", "C#", "Go", "Ruby", "PHP", "Swift", "Kotlin",
	"AWS", "Azure", "GCP", "Google Cloud Platform", "Amazon Web Services", "Microsoft Azure",
	"Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins", "GitLab CI", "GitHub Actions",
	"Spark", "Hadoop", "Kafka", "Airflow", "Tableau", "Power BI", "Looker", "Snowflake",
	"TensorFlow", "PyTorch", "Keras", "scikit-learn", "MLlib", "OpenCV", "NLTK", "spaCy",
	"React", "Angular", "Vue.js", "Node.js", "Django", "Flask", "Spring Boot", "Express.js",
	"MySQL", "PostgreSQL", "MongoDB", "Redis", "Cassandra", "Elasticsearch", "DynamoDB",
	"Git", "SVN", "Mercurial", "JIRA", "Confluence", "Slack", "Trello", "Asana",
	"REST", "GraphQL", "SOAP", "JSON", "XML", "Microservices", "API",
	"Agile", "Scrum", "Kanban", "Waterfall", "DevOps", "CI/CD",
}

type skillPattern struct {
	canonical string
	re        *regexp.Regexp
}

var skillPatterns = compileSkillPatterns()

func compileSkillPatterns() []skillPattern {
	patterns := make([]skillPattern, 0, len(skillVocabulary))
	for _, token := range skillVocabulary {
		patterns = append(patterns, skillPattern{
			canonical: token,
			re:        regexp.MustCompile(tokenPattern(token)),
		})
	}
	return patterns
}

// tokenPattern builds a case-insensitive word-bounded pattern. \b only works
// next to word characters, so tokens like "C++" or "CI/CD" get the boundary
// on their word-character ends only.
func tokenPattern(token string) string {
	var b strings.Builder
	b.WriteString(`(?i)`)
	if isWordByte(token[0]) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(token))
	if isWordByte(token[len(token)-1]) {
		b.WriteString(`\b`)
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// ExtractSkills matches the fixed vocabulary against free text and returns
// the deduplicated set of canonical skill names. Order is unspecified.
func ExtractSkills(text string) []string {
	skills := []string{}
	if text == "" {
		return skills
	}
	for _, p := range skillPatterns {
		if p.re.MatchString(text) {
			skills = append(skills, p.canonical)
		}
	}
	return skills
}

// extractIndustry scans the job-criteria list for the item whose subtitle
// mentions "industry" and returns its value text, or the default when no
// such item exists.
func extractIndustry(doc *goquery.Document) string {
	industry := "Not specified"
	doc.Find("li.description__job-criteria-item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		subtitle := item.Find("h3.description__job-criteria-subtitle").First()
		value := item.Find("span.description__job-criteria-text").First()
		if subtitle.Length() == 0 || value.Length() == 0 {
			return true
		}
		if strings.Contains(strings.ToLower(subtitle.Text()), "industry") {
			industry = strings.TrimSpace(value.Text())
			return false
		}
		return true
	})
	return industry
}
