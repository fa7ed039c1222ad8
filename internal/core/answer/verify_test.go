package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexicalVerifier_GroundedAnswerUnchanged(t *testing.T) {
	v := NewLexicalVerifier()
	context := strings.ToLower("The contract becomes void upon breach of section 5.")

	answer := "The contract becomes void upon breach of section 5. [Source 1]"
	assert.Equal(t, answer, v.Verify(answer, context))
}

func TestLexicalVerifier_CaseInsensitiveMatch(t *testing.T) {
	v := NewLexicalVerifier()

	answer := "THE CONTRACT BECOMES VOID."
	context := "the contract becomes void."
	assert.Equal(t, answer, v.Verify(answer, context))
}

func TestLexicalVerifier_UngroundedAnswerGetsNote(t *testing.T) {
	v := NewLexicalVerifier()

	answer := "Entirely fabricated claim with no support"
	got := v.Verify(answer, "completely different context text")

	assert.True(t, strings.HasPrefix(got, answer))
	assert.Contains(t, got, "verify with additional sources")
}

func TestLexicalVerifier_OneGroundedSegmentSuffices(t *testing.T) {
	v := NewLexicalVerifier()

	// 2番目のセグメントだけがコンテキストに現れる
	answer := "Fabricated first claim. the statute applies here. Fabricated last claim"
	context := "somewhere in the documents the statute applies here as stated"
	assert.Equal(t, answer, v.Verify(answer, context))
}
