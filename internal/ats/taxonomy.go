package ats

// KeywordCategory groups related taxonomy keywords.
type KeywordCategory string

const (
	CategoryTechnical   KeywordCategory = "technical"
	CategorySoftSkills  KeywordCategory = "soft_skills"
	CategoryActionVerbs KeywordCategory = "action_verbs"
	CategoryBusiness    KeywordCategory = "business"
)

// Categories lists the taxonomy categories in iteration order.
var Categories = []KeywordCategory{
	CategoryTechnical,
	CategorySoftSkills,
	CategoryActionVerbs,
	CategoryBusiness,
}

// Taxonomy maps every category to its ordered keyword list. The order of the
// technical and soft skill lists defines the skill gap priority.
type Taxonomy map[KeywordCategory][]string

// DefaultTaxonomy is the keyword vocabulary used for scoring.
var DefaultTaxonomy = Taxonomy{
	CategoryTechnical: {
		"python", "java", "javascript", "typescript", "react", "angular", "vue",
		"node.js", "django", "flask", "spring", "sql", "nosql", "mongodb",
		"postgresql", "mysql", "aws", "azure", "gcp", "docker", "kubernetes",
		"ci/cd", "devops", "git", "agile", "scrum", "rest api", "graphql",
		"microservices", "machine learning", "ai", "data science", "tensorflow",
		"pytorch", "html", "css", "sass", "webpack", "redux", "next.js",
		"express.js", "fastapi", "redis", "elasticsearch", "kafka", "jenkins",
	},
	CategorySoftSkills: {
		"leadership", "communication", "teamwork", "problem solving",
		"critical thinking", "analytical", "collaboration", "adaptability",
		"time management", "project management", "stakeholder management",
		"presentation", "negotiation", "conflict resolution", "mentoring",
		"strategic thinking", "decision making", "creativity", "innovation",
	},
	CategoryActionVerbs: {
		"developed", "designed", "implemented", "created", "built", "launched",
		"managed", "led", "achieved", "improved", "optimized", "reduced",
		"increased", "streamlined", "automated", "architected", "delivered",
		"coordinated", "executed", "established", "transformed", "scaled",
	},
	CategoryBusiness: {
		"revenue", "growth", "roi", "kpi", "metrics", "analytics", "strategy",
		"operations", "product", "customer", "user experience", "saas",
		"b2b", "b2c", "sales", "marketing", "finance", "consulting",
	},
}

// All flattens the taxonomy in category order.
func (t Taxonomy) All() []string {
	var all []string
	for _, category := range Categories {
		all = append(all, t[category]...)
	}
	return all
}

// Len is the total number of keywords across all categories.
func (t Taxonomy) Len() int {
	total := 0
	for _, category := range Categories {
		total += len(t[category])
	}
	return total
}

// Head returns at most the first n keywords of a category.
func (t Taxonomy) Head(category KeywordCategory, n int) []string {
	keywords := t[category]
	if n < len(keywords) {
		keywords = keywords[:n]
	}
	return keywords
}
