package algorithms

import "strings"

// VocabularyEntry is one known skill term used by the offline extractor.
type VocabularyEntry struct {
	Term     string
	Name     string
	Category string
}

// SkillVocabulary is scanned in order. Multi word terms come before the
// shorter terms they contain (react native before react).
var SkillVocabulary = []VocabularyEntry{
	// programming
	{"javascript", "JavaScript", "programming"},
	{"typescript", "TypeScript", "programming"},
	{"python", "Python", "programming"},
	{"java", "Java", "programming"},
	{"golang", "Go", "programming"},
	{"c++", "C++", "programming"},
	{"c#", "C#", "programming"},
	{"kotlin", "Kotlin", "programming"},
	{"swift", "Swift", "programming"},
	{"php", "PHP", "programming"},
	{"ruby", "Ruby", "programming"},
	{"rust", "Rust", "programming"},
	{"scala", "Scala", "programming"},
	{"matlab", "MATLAB", "programming"},

	// web and mobile
	{"react native", "React Native", "mobile"},
	{"react", "React", "web"},
	{"angular", "Angular", "web"},
	{"vue", "Vue.js", "web"},
	{"next.js", "Next.js", "web"},
	{"node", "Node.js", "web"},
	{"express", "Express.js", "web"},
	{"django", "Django", "web"},
	{"flask", "Flask", "web"},
	{"spring", "Spring Boot", "web"},
	{"html", "HTML", "web"},
	{"css", "CSS", "web"},
	{"tailwind", "Tailwind CSS", "web"},
	{"rest api", "REST API", "web"},
	{"graphql", "GraphQL", "web"},
	{"flutter", "Flutter", "mobile"},
	{"android", "Android", "mobile"},
	{"ios", "iOS", "mobile"},

	// data
	{"postgresql", "PostgreSQL", "database"},
	{"mysql", "MySQL", "database"},
	{"mongodb", "MongoDB", "database"},
	{"redis", "Redis", "database"},
	{"sql", "SQL", "database"},
	{"machine learning", "Machine Learning", "data"},
	{"deep learning", "Deep Learning", "data"},
	{"artificial intelligence", "Artificial Intelligence", "data"},
	{"data analysis", "Data Analysis", "data"},
	{"data science", "Data Science", "data"},
	{"statistics", "Statistics", "data"},
	{"tensorflow", "TensorFlow", "data"},
	{"pytorch", "PyTorch", "data"},
	{"pandas", "Pandas", "data"},
	{"power bi", "Power BI", "data"},
	{"tableau", "Tableau", "data"},
	{"excel", "Microsoft Excel", "data"},

	// cloud and ops
	{"aws", "AWS", "cloud"},
	{"azure", "Azure", "cloud"},
	{"google cloud", "Google Cloud", "cloud"},
	{"docker", "Docker", "devops"},
	{"kubernetes", "Kubernetes", "devops"},
	{"terraform", "Terraform", "devops"},
	{"jenkins", "Jenkins", "devops"},
	{"ci/cd", "CI/CD", "devops"},
	{"linux", "Linux", "devops"},
	{"git", "Git", "devops"},
	{"networking", "Networking", "infrastructure"},
	{"cybersecurity", "Cybersecurity", "security"},
	{"ethical hacking", "Ethical Hacking", "security"},

	// design and product
	{"figma", "Figma", "design"},
	{"ui/ux", "UI/UX Design", "design"},
	{"photoshop", "Adobe Photoshop", "design"},
	{"illustrator", "Adobe Illustrator", "design"},
	{"autocad", "AutoCAD", "design"},
	{"product management", "Product Management", "business"},
	{"project management", "Project Management", "business"},
	{"agile", "Agile", "business"},
	{"scrum", "Scrum", "business"},
	{"digital marketing", "Digital Marketing", "business"},
	{"seo", "SEO", "business"},
	{"accounting", "Accounting", "business"},
	{"tally", "Tally ERP", "business"},
	{"sales", "Sales", "business"},
	{"customer service", "Customer Service", "business"},

	// vocational
	{"welding", "Welding", "vocational"},
	{"plumbing", "Plumbing", "vocational"},
	{"electrical", "Electrical Wiring", "vocational"},
	{"carpentry", "Carpentry", "vocational"},
	{"tailoring", "Tailoring", "vocational"},
	{"cnc", "CNC Machining", "vocational"},
	{"automotive", "Automotive Repair", "vocational"},
	{"solar", "Solar PV Installation", "vocational"},
	{"nursing", "Nursing", "healthcare"},
	{"first aid", "First Aid", "healthcare"},
	{"retail", "Retail Operations", "vocational"},
	{"hospitality", "Hospitality", "vocational"},
	{"food production", "Food Production", "vocational"},
	{"beauty", "Beauty & Wellness", "vocational"},

	// soft skills
	{"communication", "Communication", "soft skills"},
	{"leadership", "Leadership", "soft skills"},
	{"teamwork", "Teamwork", "soft skills"},
	{"problem solving", "Problem Solving", "soft skills"},
}

// ExtractKnownSkills scans text for vocabulary terms. A term only counts when
// it is not glued to other letters or digits, so "digital" does not yield Git
// and "javascript" does not yield Java.
func ExtractKnownSkills(text string) []VocabularyEntry {
	lower := strings.ToLower(text)
	found := make([]VocabularyEntry, 0)
	seen := make(map[string]bool)

	for _, entry := range SkillVocabulary {
		if seen[entry.Name] {
			continue
		}
		masked := maskLonger(lower, entry.Term, found)
		if !ContainsTerm(masked, entry.Term) {
			continue
		}
		seen[entry.Name] = true
		found = append(found, entry)
	}
	return found
}

// ContainsTerm reports whether term occurs in text with word boundaries on
// both sides.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	from := 0
	for {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(term)
		if !isWordByte(text, start-1) && !isWordByte(text, end) {
			return true
		}
		from = start + 1
	}
}

func isWordByte(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return false
	}
	c := text[i]
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// maskLonger blanks out already matched terms that contain term, so
// "react native" does not also count as React.
func maskLonger(text, term string, found []VocabularyEntry) string {
	for _, f := range found {
		if len(f.Term) > len(term) && strings.Contains(f.Term, term) {
			text = strings.ReplaceAll(text, f.Term, " ")
		}
	}
	return text
}
