package algorithms

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// roleCatalog lists the skills each target role requires.
var roleCatalog = map[string][]string{
	"Software Engineer":         {"Data Structures", "Algorithms", "Git", "SQL", "System Design", "Testing", "Python"},
	"Frontend Developer":        {"HTML", "CSS", "JavaScript", "React", "TypeScript", "Responsive Design", "Git"},
	"Backend Developer":         {"Node.js", "SQL", "REST API", "Docker", "Authentication", "Git", "Caching"},
	"Full Stack Developer":      {"HTML", "CSS", "JavaScript", "React", "Node.js", "SQL", "REST API", "Git"},
	"Mobile Developer":          {"Kotlin", "Swift", "Flutter", "REST API", "Git", "UI Design"},
	"Data Scientist":            {"Python", "Statistics", "Machine Learning", "Pandas", "SQL", "Data Visualization"},
	"Data Analyst":              {"Excel", "SQL", "Statistics", "Power BI", "Tableau", "Data Cleaning"},
	"Machine Learning Engineer": {"Python", "Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "MLOps"},
	"DevOps Engineer":           {"Linux", "Docker", "Kubernetes", "CI/CD", "Terraform", "AWS", "Monitoring"},
	"Cloud Engineer":            {"AWS", "Azure", "Networking", "Linux", "Terraform", "Security"},
	"Cybersecurity Analyst":     {"Networking", "Linux", "Ethical Hacking", "Firewalls", "SIEM", "Incident Response"},
	"UI/UX Designer":            {"Figma", "Wireframing", "Prototyping", "User Research", "Typography", "Design Systems"},
	"Product Manager":           {"Product Management", "Agile", "User Research", "Roadmapping", "Analytics", "Communication"},
	"Project Manager":           {"Project Management", "Agile", "Scrum", "Risk Management", "Budgeting", "Communication"},
	"Digital Marketer":          {"Digital Marketing", "SEO", "Content Writing", "Social Media", "Analytics", "Email Marketing"},
	"Accountant":                {"Accounting", "Tally", "Excel", "GST", "Taxation", "Financial Reporting"},
	"Electrician":               {"Electrical Wiring", "Safety Procedures", "Circuit Testing", "Blueprint Reading", "Troubleshooting"},
	"Welder":                    {"Welding", "Blueprint Reading", "Metal Fabrication", "Safety Procedures", "Inspection"},
	"Solar Technician":          {"Solar PV Installation", "Electrical Wiring", "Safety Procedures", "Troubleshooting", "Maintenance"},
	"Nurse":                     {"Nursing", "Patient Care", "First Aid", "Medication Administration", "Communication"},
}

// roleAliases maps common short forms to catalog roles. Keys are lower case.
var roleAliases = map[string]string{
	"swe":                   "Software Engineer",
	"sde":                   "Software Engineer",
	"software developer":    "Software Engineer",
	"developer":             "Software Engineer",
	"programmer":            "Software Engineer",
	"frontend":              "Frontend Developer",
	"front end":             "Frontend Developer",
	"front-end":             "Frontend Developer",
	"react developer":       "Frontend Developer",
	"backend":               "Backend Developer",
	"back end":              "Backend Developer",
	"back-end":              "Backend Developer",
	"fullstack":             "Full Stack Developer",
	"full stack":            "Full Stack Developer",
	"full-stack":            "Full Stack Developer",
	"mern":                  "Full Stack Developer",
	"android developer":     "Mobile Developer",
	"ios developer":         "Mobile Developer",
	"app developer":         "Mobile Developer",
	"ds":                    "Data Scientist",
	"data science":          "Data Scientist",
	"analyst":               "Data Analyst",
	"business analyst":      "Data Analyst",
	"ml":                    "Machine Learning Engineer",
	"ml engineer":           "Machine Learning Engineer",
	"ai engineer":           "Machine Learning Engineer",
	"devops":                "DevOps Engineer",
	"sre":                   "DevOps Engineer",
	"cloud":                 "Cloud Engineer",
	"security":              "Cybersecurity Analyst",
	"cyber security":        "Cybersecurity Analyst",
	"ux":                    "UI/UX Designer",
	"ui":                    "UI/UX Designer",
	"designer":              "UI/UX Designer",
	"pm":                    "Product Manager",
	"product":               "Product Manager",
	"marketing":             "Digital Marketer",
	"seo specialist":        "Digital Marketer",
	"ca":                    "Accountant",
	"accounts":              "Accountant",
	"electrical":            "Electrician",
	"electrical technician": "Electrician",
	"welding":               "Welder",
	"solar":                 "Solar Technician",
	"solar installer":       "Solar Technician",
	"nursing":               "Nurse",
}

// SkillJudge decides whether current skills cover one required skill. It
// returns ok=false when it cannot decide and the substring rule should be used.
type SkillJudge func(ctx context.Context, current []string, required string) (matched bool, ok bool)

type SkillVerdict struct {
	Skill   string `json:"skill"`
	Matched bool   `json:"matched"`
	Source  string `json:"source"` // ai or fallback
}

type GapAnalysis struct {
	TargetRole      string         `json:"target_role"`
	RoleFound       bool           `json:"role_found"`
	RequiredSkills  []string       `json:"required_skills,omitempty"`
	MissingSkills   []string       `json:"missing_skills"`
	MatchedSkills   []string       `json:"matched_skills"`
	MatchPercentage int            `json:"match_percentage"`
	Recommendations []string       `json:"recommendations"`
	AvailableRoles  []string       `json:"available_roles,omitempty"`
	Verdicts        []SkillVerdict `json:"verdicts,omitempty"`
}

// AvailableRoles returns the catalog role names sorted.
func AvailableRoles() []string {
	roles := make([]string, 0, len(roleCatalog))
	for r := range roleCatalog {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// RequiredSkillsFor returns the catalog skills of role and whether it exists.
func RequiredSkillsFor(role string) ([]string, bool) {
	skills, ok := roleCatalog[role]
	if !ok {
		return nil, false
	}
	return append([]string(nil), skills...), true
}

// NormalizeRole resolves aliases: exact alias, then an alias contained in the
// input, then a case insensitive catalog name, else the input title cased.
func NormalizeRole(input string) string {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return ""
	}
	if role, ok := roleAliases[key]; ok {
		return role
	}
	for role := range roleCatalog {
		if strings.ToLower(role) == key {
			return role
		}
	}

	// Longest alias first so "full stack" beats "stack" style collisions.
	aliases := make([]string, 0, len(roleAliases))
	for a := range roleAliases {
		aliases = append(aliases, a)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})
	for _, a := range aliases {
		if len(a) > 2 && strings.Contains(key, a) {
			return roleAliases[a]
		}
	}

	return titleCase(strings.TrimSpace(input))
}

// AnalyzeGap compares current skills with the target role. judge may be nil.
func AnalyzeGap(ctx context.Context, current []string, targetRole string, judge SkillJudge) GapAnalysis {
	role := NormalizeRole(targetRole)
	required, ok := roleCatalog[role]
	if !ok {
		return GapAnalysis{
			TargetRole:      role,
			RoleFound:       false,
			MissingSkills:   []string{},
			MatchedSkills:   []string{},
			Recommendations: []string{"Choose one of the available roles to get a skill gap analysis."},
			AvailableRoles:  AvailableRoles(),
		}
	}

	normalized := NormalizeSkills(current)
	res := GapAnalysis{
		TargetRole:     role,
		RoleFound:      true,
		RequiredSkills: append([]string(nil), required...),
		MissingSkills:  []string{},
		MatchedSkills:  []string{},
	}

	for _, skill := range required {
		verdict := SkillVerdict{Skill: skill, Source: "fallback"}
		decided := false
		if judge != nil {
			if matched, ok := judge(ctx, current, skill); ok {
				verdict.Matched = matched
				verdict.Source = "ai"
				decided = true
			}
		}
		if !decided {
			verdict.Matched = HasSkill(normalized, strings.ToLower(skill))
		}

		if verdict.Matched {
			res.MatchedSkills = append(res.MatchedSkills, skill)
		} else {
			res.MissingSkills = append(res.MissingSkills, skill)
		}
		res.Verdicts = append(res.Verdicts, verdict)
	}

	res.MatchPercentage = gapPercentage(len(required), len(res.MissingSkills))
	res.Recommendations = gapRecommendations(role, res.MissingSkills)
	return res
}

func gapPercentage(required, missing int) int {
	if required == 0 {
		return 100
	}
	return int(math.Round(float64(required-missing) / float64(required) * 100))
}

func gapRecommendations(role string, missing []string) []string {
	recs := make([]string, 0, len(missing)+1)
	for _, m := range missing {
		recs = append(recs, "Build "+m+" through a certified course or a hands-on project.")
	}
	if len(missing) == 0 {
		recs = append(recs, "You meet the core requirements for "+role+". Add verified credentials to stand out.")
	} else {
		recs = append(recs, "Upload credentials for new skills so employers can see your progress toward "+role+".")
	}
	return recs
}

// titleCase upper-cases the first rune of each word and keeps the rest as typed.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToTitle(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
