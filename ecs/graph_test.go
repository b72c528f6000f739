package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// White-box test, package ecs: exercises buildConflictGraph/colour directly
// against hand-built systemMeta values, bypassing reflection entirely.

func newMeta(name string, components map[ComponentID]accessType) *systemMeta {
	return &systemMeta{
		name:       name,
		components: components,
		resources:  make(map[reflect.Type]accessType),
	}
}

func TestColourNoTwoAdjacentShareAColour(t *testing.T) {
	// s0 writes component 0; s1 reads 0 and writes 1; s2 reads 1.
	// s0-s1 conflict (both touch 0, s0 writes); s1-s2 conflict (both touch
	// 1, s1 writes); s0-s2 share nothing.
	metas := []*systemMeta{
		newMeta("s0", map[ComponentID]accessType{0: accessWrite}),
		newMeta("s1", map[ComponentID]accessType{0: accessRead, 1: accessWrite}),
		newMeta("s2", map[ComponentID]accessType{1: accessRead}),
	}

	g := buildConflictGraph(metas)
	classes := g.colour()

	assert.True(t, g.noTwoAdjacentInSameColour(classes))

	total := 0
	for _, c := range classes {
		total += len(c)
	}
	assert.Equal(t, 3, total, "every system must appear in exactly one colour class")

	// s0 and s2 share no component and must be free to share a colour
	// together; s1 conflicts with both and so must sit alone in its own.
	for _, c := range classes {
		if len(c) == 2 {
			assert.ElementsMatch(t, []int{0, 2}, c)
		}
	}
}

func TestColourFullyDisjointSystemsShareOneColour(t *testing.T) {
	metas := []*systemMeta{
		newMeta("s0", map[ComponentID]accessType{0: accessWrite}),
		newMeta("s1", map[ComponentID]accessType{1: accessWrite}),
		newMeta("s2", map[ComponentID]accessType{2: accessWrite}),
	}

	g := buildConflictGraph(metas)
	classes := g.colour()

	assert.True(t, g.noTwoAdjacentInSameColour(classes))
	assert.Len(t, classes, 1)
	assert.ElementsMatch(t, []int{0, 1, 2}, classes[0])
}

func TestColourFullyConflictingSystemsEachGetOwnColour(t *testing.T) {
	metas := []*systemMeta{
		newMeta("s0", map[ComponentID]accessType{0: accessWrite}),
		newMeta("s1", map[ComponentID]accessType{0: accessWrite}),
		newMeta("s2", map[ComponentID]accessType{0: accessWrite}),
	}

	g := buildConflictGraph(metas)
	classes := g.colour()

	assert.True(t, g.noTwoAdjacentInSameColour(classes))
	assert.Len(t, classes, 3)
}

func TestColourClassesSortedAscendingBySize(t *testing.T) {
	// s0 conflicts with everything; s1,s2,s3 are mutually disjoint.
	metas := []*systemMeta{
		newMeta("s0", map[ComponentID]accessType{0: accessWrite, 1: accessWrite, 2: accessWrite}),
		newMeta("s1", map[ComponentID]accessType{0: accessRead}),
		newMeta("s2", map[ComponentID]accessType{1: accessRead}),
		newMeta("s3", map[ComponentID]accessType{2: accessRead}),
	}

	g := buildConflictGraph(metas)
	classes := g.colour()

	assert.True(t, g.noTwoAdjacentInSameColour(classes))
	for i := 1; i < len(classes); i++ {
		assert.LessOrEqual(t, len(classes[i-1]), len(classes[i]))
	}
}
