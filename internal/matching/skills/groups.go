package skills

// Group is an affinity group of related skills.
type Group string

const (
	GroupFrontend Group = "frontend"
	GroupBackend  Group = "backend"
	GroupDatabase Group = "database"
	GroupDevOps   Group = "devops"
	GroupDesign   Group = "design"
)

// Groups lists the affinity groups in scoring order.
var Groups = []Group{GroupFrontend, GroupBackend, GroupDatabase, GroupDevOps, GroupDesign}

var groupWeights = map[Group]float64{
	GroupFrontend: 15,
	GroupBackend:  15,
	GroupDatabase: 10,
	GroupDevOps:   10,
	GroupDesign:   10,
}

var groupMembers = map[Group][]string{
	GroupFrontend: {
		"react", "react.js", "reactjs", "vue", "vue.js", "vuejs", "angular", "angularjs",
		"svelte", "next.js", "nextjs", "nuxt", "nuxt.js", "ember.js", "jquery", "html",
		"css", "sass", "tailwind", "tailwind css", "redux", "javascript", "typescript",
	},
	GroupBackend: {
		"node.js", "nodejs", "node", "express", "express.js", "nestjs", "django", "flask",
		"fastapi", "spring", "spring boot", "rails", "ruby on rails", "laravel", ".net",
		"asp.net", "go", "golang", "java", "python", "php", "ruby", "c#", "kotlin",
		"rust", "graphql",
	},
	GroupDatabase: {
		"mysql", "postgresql", "postgres", "mongodb", "redis", "sqlite", "oracle",
		"sql server", "mariadb", "cassandra", "dynamodb", "firebase", "elasticsearch",
		"sql", "nosql",
	},
	GroupDevOps: {
		"docker", "kubernetes", "k8s", "aws", "azure", "gcp", "google cloud", "terraform",
		"ansible", "jenkins", "github actions", "gitlab ci", "ci/cd", "helm", "linux",
		"prometheus", "nginx",
	},
	GroupDesign: {
		"figma", "sketch", "adobe xd", "photoshop", "illustrator", "invision", "zeplin",
		"ui design", "ux design", "ui/ux", "wireframing", "prototyping",
	},
}

// skillGroups is built once at init and never mutated afterwards.
var skillGroups = func() map[string]Group {
	m := make(map[string]Group)
	for _, g := range Groups {
		for _, skill := range groupMembers[g] {
			m[NormalizeToken(skill)] = g
		}
	}
	return m
}()

// GroupOf returns the affinity group of a skill.
func GroupOf(skill string) (Group, bool) {
	g, ok := skillGroups[NormalizeToken(skill)]
	return g, ok
}

// Weight is the related-skill bonus awarded for the group.
func (g Group) Weight() float64 {
	return groupWeights[g]
}

// Members returns the canonical skills of the group.
func (g Group) Members() []string {
	out := make([]string, len(groupMembers[g]))
	copy(out, groupMembers[g])
	return out
}

// ByGroup partitions s by affinity group. Ungrouped skills are omitted.
func (s Set) ByGroup() map[Group]Set {
	out := make(map[Group]Set)
	for k := range s.items {
		g, ok := skillGroups[k]
		if !ok {
			continue
		}
		gs := out[g]
		gs.Add(k)
		out[g] = gs
	}
	return out
}
