package tokenizer

import (
	"sync"

	"github.com/eliben/go-sentencepiece"
	hftokenizer "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// hfTokenizer wraps a HuggingFace tokenizer.json pipeline.
type hfTokenizer struct {
	mu sync.Mutex
	tk *hftokenizer.Tokenizer
}

// OpenHFTokenizer loads a HuggingFace tokenizer.json file. Encoding adds the
// model's special tokens.
func OpenHFTokenizer(path string) (Tokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, err
	}
	return &hfTokenizer{tk: tk}, nil
}

func (t *hfTokenizer) Encode(text string) ([]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	en, err := t.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, err
	}
	return en.Ids, nil
}

// t5EOSID is the id of "</s>" in T5 vocabularies. The processor only
// recognises an "<eos>" control piece.
const t5EOSID = 1

// sentencePieceTokenizer wraps a SentencePiece model and appends the end of
// sequence id, as T5 tokenizers do.
type sentencePieceTokenizer struct {
	mu    sync.Mutex
	proc  *sentencepiece.Processor
	eosID int
}

// OpenSentencePiece loads a SentencePiece spiece.model file.
func OpenSentencePiece(path string) (Tokenizer, error) {
	proc, err := sentencepiece.NewProcessorFromPath(path)
	if err != nil {
		return nil, err
	}
	eosID := proc.ModelInfo().EndOfSentenceID
	if eosID < 0 {
		eosID = t5EOSID
	}
	return &sentencePieceTokenizer{proc: proc, eosID: eosID}, nil
}

func (t *sentencePieceTokenizer) Encode(text string) ([]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// the processor yields a lone <unk> for empty input
	if text == "" {
		return []int{t.eosID}, nil
	}
	tokens := t.proc.Encode(text)
	ids := make([]int, 0, len(tokens)+1)
	for _, tok := range tokens {
		ids = append(ids, tok.ID)
	}
	return append(ids, t.eosID), nil
}
