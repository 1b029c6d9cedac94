package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Builder_DeterministicAndFieldSensitive(t *testing.T) {
	assert := assert.New(t)

	h1 := NewBuilder().WriteTag(1).WriteString("abc").WriteUint64(42).Sum()
	h2 := NewBuilder().WriteTag(1).WriteString("abc").WriteUint64(42).Sum()
	assert.Equal(h1, h2)

	h3 := NewBuilder().WriteTag(1).WriteString("abd").WriteUint64(42).Sum()
	assert.NotEqual(h1, h3)
}

func Test_Builder_LengthPrefixingAvoidsConcatenationCollision(t *testing.T) {
	assert := assert.New(t)

	ab, c := NewBuilder().WriteString("ab").WriteString("c").Sum(), NewBuilder().WriteString("a").WriteString("bc").Sum()
	assert.NotEqual(ab, c)
}

func Test_Hash_Less_IsTotalOrder(t *testing.T) {
	assert := assert.New(t)

	a := Hash{0x01}
	b := Hash{0x02}
	assert.True(a.Less(b))
	assert.False(b.Less(a))
	assert.False(a.Less(a))
}

func Test_Of_Returns32ByteDigest(t *testing.T) {
	assert := assert.New(t)

	direct := Of([]byte("hello"))
	assert.Equal(32, len(direct))
}

func Test_WriteHash_ChainsSubHashesWithoutRehashingStructure(t *testing.T) {
	assert := assert.New(t)

	child := NewBuilder().WriteString("child").Sum()
	parent1 := NewBuilder().WriteTag(5).WriteHash(child).Sum()
	parent2 := NewBuilder().WriteTag(5).WriteHash(child).Sum()
	assert.Equal(parent1, parent2)

	otherChild := NewBuilder().WriteString("other").Sum()
	parent3 := NewBuilder().WriteTag(5).WriteHash(otherChild).Sum()
	assert.NotEqual(parent1, parent3)
}
