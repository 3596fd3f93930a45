package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		expected []string
	}{
		{"lowercases and dedupes", []string{"React", "react", "REACT"}, []string{"react"}},
		{"trims and collapses whitespace", []string{"  Spring   Boot ", "spring boot"}, []string{"spring boot"}},
		{"drops empty tokens", []string{"", "   ", "Go"}, []string{"go"}},
		{"sorted output", []string{"Vue", "Angular", "Docker"}, []string{"angular", "docker", "vue"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw).Slice())
		})
	}
}

func TestSet_Operations(t *testing.T) {
	a := Normalize([]string{"React", "Node.js", "Docker"})
	b := Normalize([]string{"react", "MongoDB"})

	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Has(" REACT "))
	assert.False(t, a.Has("mongodb"))
	assert.Equal(t, []string{"react"}, a.Intersect(b).Slice())
	assert.Equal(t, []string{"mongodb"}, b.Minus(a).Slice())

	var zero Set
	assert.True(t, zero.Empty())
	assert.Equal(t, 0, zero.Intersect(a).Len())
	zero.Add("Figma")
	assert.True(t, zero.Has("figma"))
}

func TestGroupOf(t *testing.T) {
	tests := []struct {
		skill string
		group Group
		ok    bool
	}{
		{"React", GroupFrontend, true},
		{"node.js", GroupBackend, true},
		{"MongoDB", GroupDatabase, true},
		{"Kubernetes", GroupDevOps, true},
		{"Adobe  XD", GroupDesign, true},
		{"excel", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.skill, func(t *testing.T) {
			g, ok := GroupOf(tt.skill)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.group, g)
		})
	}
}

func TestGroupWeights(t *testing.T) {
	assert.Equal(t, 15.0, GroupFrontend.Weight())
	assert.Equal(t, 15.0, GroupBackend.Weight())
	assert.Equal(t, 10.0, GroupDatabase.Weight())
	assert.Equal(t, 10.0, GroupDevOps.Weight())
	assert.Equal(t, 10.0, GroupDesign.Weight())
}

func TestGroupMembersAreDisjoint(t *testing.T) {
	seen := map[string]Group{}
	for _, g := range Groups {
		for _, m := range g.Members() {
			prev, dup := seen[NormalizeToken(m)]
			assert.False(t, dup, "%s listed in %s and %s", m, prev, g)
			seen[NormalizeToken(m)] = g
		}
	}
}

func TestSet_ByGroup(t *testing.T) {
	groups := Normalize([]string{"React", "Vue", "Django", "Excel"}).ByGroup()

	assert.Equal(t, []string{"react", "vue"}, groups[GroupFrontend].Slice())
	assert.Equal(t, []string{"django"}, groups[GroupBackend].Slice())
	assert.True(t, groups[GroupDesign].Empty())
	assert.Len(t, groups, 2)
}
