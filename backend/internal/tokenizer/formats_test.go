package tokenizer

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

const wordLevelJSON = `{
  "version": "1.0",
  "truncation": null,
  "padding": null,
  "added_tokens": [],
  "normalizer": null,
  "pre_tokenizer": {"type": "Whitespace"},
  "post_processor": null,
  "decoder": null,
  "model": {"type": "WordLevel", "vocab": {"[UNK]": 0, "a": 1, "cat": 2}, "unk_token": "[UNK]"}
}`

// SentencePiece piece types from sentencepiece_model.proto.
const (
	pieceNormal  = 1
	pieceUnknown = 2
	pieceControl = 3
	bpeModelType = 2
)

type piece struct {
	text  string
	score float32
	kind  uint64
}

// sentencePieceModel encodes a minimal BPE ModelProto with byte fallback off
// and the normalizer options the processor requires disabled.
func sentencePieceModel(pieces ...piece) []byte {
	var b []byte
	for _, p := range pieces {
		var sp []byte
		sp = protowire.AppendTag(sp, 1, protowire.BytesType)
		sp = protowire.AppendString(sp, p.text)
		sp = protowire.AppendTag(sp, 2, protowire.Fixed32Type)
		sp = protowire.AppendFixed32(sp, math.Float32bits(p.score))
		sp = protowire.AppendTag(sp, 3, protowire.VarintType)
		sp = protowire.AppendVarint(sp, p.kind)

		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, sp)
	}

	var trainer []byte
	trainer = protowire.AppendTag(trainer, 3, protowire.VarintType)
	trainer = protowire.AppendVarint(trainer, bpeModelType)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, trainer)

	var normalizer []byte
	normalizer = protowire.AppendTag(normalizer, 3, protowire.VarintType)
	normalizer = protowire.AppendVarint(normalizer, 0)
	normalizer = protowire.AppendTag(normalizer, 4, protowire.VarintType)
	normalizer = protowire.AppendVarint(normalizer, 0)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, normalizer)
	return b
}

func encodeAll(t *testing.T, tok Tokenizer, texts ...string) [][]int {
	t.Helper()
	out := make([][]int, 0, len(texts))
	for _, text := range texts {
		ids, err := tok.Encode(text)
		require.NoError(t, err, text)
		out = append(out, ids)
	}
	return out
}

func TestDefaultFormats_HFTokenizerJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tokenizer.json"), []byte(wordLevelJSON), 0o644))

	tok, err := NewLoader("").Load(dir)
	require.NoError(t, err)

	got := encodeAll(t, tok, "", "a cat", "a cat dog")
	assert.Empty(t, got[0])
	assert.Equal(t, []int{1, 2}, got[1])
	assert.Equal(t, []int{1, 2, 0}, got[2])
}

func TestDefaultFormats_SentencePieceUsesModelEOS(t *testing.T) {
	dir := t.TempDir()
	model := sentencePieceModel(
		piece{"<unk>", 0, pieceUnknown},
		piece{"<pad>", 0, pieceControl},
		piece{"<eos>", 0, pieceControl},
		piece{"a", -1, pieceNormal},
		piece{"b", -1, pieceNormal},
		piece{"ab", 1, pieceNormal},
		piece{"▁", -1, pieceNormal},
		// sizes the processor's merge buffer past "ab"+"▁"
		piece{"▁ab▁", -5, pieceNormal},
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spiece.model"), model, 0o644))

	tok, err := NewLoader("").Load(dir)
	require.NoError(t, err)

	got := encodeAll(t, tok, "", "ab", "ab a")
	assert.Equal(t, []int{2}, got[0])
	assert.Equal(t, []int{5, 2}, got[1])
	assert.Equal(t, []int{5, 6, 3, 2}, got[2])
}

func TestOpenSentencePiece_T5StyleEOS(t *testing.T) {
	file := filepath.Join(t.TempDir(), "spiece.model")
	model := sentencePieceModel(
		piece{"<unk>", 0, pieceUnknown},
		piece{"</s>", 0, pieceControl},
		piece{"a", -1, pieceNormal},
	)
	require.NoError(t, os.WriteFile(file, model, 0o644))

	tok, err := OpenSentencePiece(file)
	require.NoError(t, err)

	got := encodeAll(t, tok, "", "a")
	assert.Equal(t, []int{1}, got[0])
	assert.Equal(t, []int{2, 1}, got[1])
}

func TestDefaultFormats_CorruptFilesAreUnavailable(t *testing.T) {
	for _, file := range []string{"tokenizer.json", "spiece.model"} {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte("{not a tokenizer"), 0o644))

		_, err := NewLoader("").Load(dir)
		require.Error(t, err, file)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeTokenizer), file)
	}
}
