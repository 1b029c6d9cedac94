package surface

import (
	"testing"

	"github.com/dekarrin/gudgeon/regex"
	"github.com/stretchr/testify/assert"
)

func Test_Parse_Precedence(t *testing.T) {
	assert := assert.New(t)

	// '|' binds loosest, so "ab|cd" is Or(Concat(a,b), Concat(c,d)).
	r, err := Parse("ab|cd")
	assert.NoError(err)
	want := regex.Or(
		regex.Concat(regex.Lit('a'), regex.Lit('b')),
		regex.Concat(regex.Lit('c'), regex.Lit('d')),
	)
	assert.True(r.Equal(want))
}

func Test_Parse_Intersection(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse("a&b")
	assert.NoError(err)
	assert.True(r.Equal(regex.And(regex.Lit('a'), regex.Lit('b'))))
}

func Test_Parse_Negation(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse("!a")
	assert.NoError(err)
	assert.True(r.Equal(regex.Not(regex.Lit('a'))))
}

func Test_Parse_Grouping(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse("(a|b)c")
	assert.NoError(err)
	want := regex.Concat(regex.Or(regex.Lit('a'), regex.Lit('b')), regex.Lit('c'))
	assert.True(r.Equal(want))
}

func Test_Parse_Repetition(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse("a*")
	assert.NoError(err)
	assert.True(r.Equal(regex.Loop(regex.Lit('a'))))

	r, err = Parse("a?")
	assert.NoError(err)
	assert.True(r.IsNullable())
}

func Test_Parse_BracketClassDelegatesToFromSyntax(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse("[a-z]")
	assert.NoError(err)

	want, err := regex.FromSyntax("[a-z]")
	assert.NoError(err)
	assert.True(r.Equal(want))
}

func Test_Parse_BackslashDigitEscapeMeansDigitClassNotLiteralBackslash(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse(`\d+`)
	assert.NoError(err)

	d, err := regex.FromSyntax(`\d`)
	assert.NoError(err)
	want := regex.Plus(d)
	assert.True(r.Equal(want), "\\d+ must mean one-or-more digits, not a literal backslash followed by literal 'd'")

	// sanity check on the bug this guards against: \d+ must NOT equal
	// Concat(Lit('\\'), Plus(Lit('d'))).
	wrong := regex.Concat(regex.Lit('\\'), regex.Plus(regex.Lit('d')))
	assert.False(r.Equal(wrong))
}

func Test_Parse_DotWildcardDelegatesToFromSyntax(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse(".")
	assert.NoError(err)

	want, err := regex.FromSyntax(".")
	assert.NoError(err)
	assert.True(r.Equal(want))
}

// The following three cases are spec.md §8's mandatory Testable Properties
// scenarios 7, 8, and 9; the first two depend on "\d" parsing as a digit
// class.
func Test_Parse_TestableProperties_PunctIntersectDigit(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse(`[[:punct:]]+ & \d+`)
	assert.NoError(err)
	assert.False(r.IsNullable())

	punct, err := regex.FromSyntax("[[:punct:]]")
	assert.NoError(err)
	digit, err := regex.FromSyntax(`\d`)
	assert.NoError(err)
	want := regex.And(regex.Plus(punct), regex.Plus(digit))
	assert.True(r.Equal(want))
}

func Test_Parse_TestableProperties_BracketIntersectDigit(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse(`[123]+ & \d+`)
	assert.NoError(err)

	bracket, err := regex.FromSyntax("[123]")
	assert.NoError(err)
	digit, err := regex.FromSyntax(`\d`)
	assert.NoError(err)
	want := regex.And(regex.Plus(bracket), regex.Plus(digit))
	assert.True(r.Equal(want))
}

// spec.md's prose quotes this pattern as "/\*.*" but the surface grammar has
// no string-quoting syntax of its own. '!' binds tighter than concatenation,
// so the body is parenthesized to keep the whole string as the operand of '!'.
func Test_Parse_TestableProperties_NegatedSlashStarDotStar(t *testing.T) {
	assert := assert.New(t)

	r, err := Parse(`!(/\*.*)`)
	assert.NoError(err)

	star, err := regex.FromSyntax(`\*`)
	assert.NoError(err)
	dot, err := regex.FromSyntax(".")
	assert.NoError(err)
	want := regex.Not(regex.Concat(regex.Lit('/'), star, regex.Loop(dot)))
	assert.True(r.Equal(want))
}

func Test_Parse_UnclosedParenIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("(ab")
	assert.Error(err)
}

func Test_Parse_TrailingGarbageIsError(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("ab)")
	assert.Error(err)
}
