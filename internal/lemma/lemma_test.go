package lemma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/valpere/numfix/internal/lang"
)

const sampleCoNLLU = "# newdoc\n# sent_id = 1\n# text = Ušel dvacet pět km.\n" +
	"1\tUšel\tujít\tVERB\t_\t_\t0\troot\t_\tTokenRange=0:4\n" +
	"2\tdvacet\tdvacet\tNUM\t_\t_\t4\tnummod\t_\tTokenRange=5:11\n" +
	"3\tpět\tpět\tNUM\t_\t_\t2\tflat\t_\tTokenRange=12:15\n" +
	"4\tkm\tkm\tNOUN\t_\t_\t1\tobj\t_\tSpaceAfter=No|TokenRange=16:18\n" +
	"5\t.\t.\tPUNCT\t_\t_\t1\tpunct\t_\tSpaceAfter=No|TokenRange=18:19\n\n"

func TestParseCoNLLU(t *testing.T) {
	text := "Ušel dvacet pět km."

	tokens, err := ParseCoNLLU(sampleCoNLLU, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(tokens))
	}

	for _, tok := range tokens {
		if got := text[tok.Start:tok.End]; got != tok.Word {
			t.Errorf("range %d:%d gives %q, want %q", tok.Start, tok.End, got, tok.Word)
		}
	}

	if !tokens[1].IsNumeral() || tokens[1].IsDigits() {
		t.Errorf("expected word numeral, got %+v", tokens[1])
	}
	if !tokens[4].IsPunct() {
		t.Errorf("expected punctuation, got %+v", tokens[4])
	}
}

func TestParseCoNLLU_Malformed(t *testing.T) {
	if _, err := ParseCoNLLU("1\tfoo\tfoo\n", "foo"); err == nil {
		t.Error("expected error for short line")
	}
	if _, err := ParseCoNLLU("1\tfoo\tfoo\tX\t_\t_\t0\troot\t_\tTokenRange=0:40\n", "foo"); err == nil {
		t.Error("expected error for range outside text")
	}
}

func TestParseCoNLLU_SkipsMultiword(t *testing.T) {
	conllu := "1-2\tabych\t_\t_\t_\t_\t_\t_\t_\tTokenRange=0:5\n" +
		"1\taby\taby\tSCONJ\t_\t_\t0\troot\t_\t_\n" +
		"2\tbych\tbýt\tAUX\t_\t_\t1\taux\t_\t_\n"

	tokens, err := ParseCoNLLU(conllu, "abych")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %+v", tokens)
	}
}

func TestUDPipe_Lemmatize(t *testing.T) {
	var gotModel, gotData string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotModel = r.Form.Get("model")
		gotData = r.Form.Get("data")
		json.NewEncoder(w).Encode(map[string]string{"model": "czech", "result": sampleCoNLLU})
	}))
	defer server.Close()

	u := NewUDPipe(server.URL, 0)
	tokens, err := u.Lemmatize(context.Background(), "Ušel dvacet pět km.", lang.Czech)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 5 {
		t.Errorf("expected 5 tokens, got %d", len(tokens))
	}
	if gotModel != "" {
		t.Errorf("expected default model for Czech, got %q", gotModel)
	}
	if gotData != "Ušel dvacet pět km." {
		t.Errorf("unexpected data %q", gotData)
	}

	if _, err := u.Lemmatize(context.Background(), "x", lang.English); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotModel != "english" {
		t.Errorf("expected english model, got %q", gotModel)
	}
}

func TestUDPipe_Lemmatize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	_, err := NewUDPipe(server.URL, 0).Lemmatize(context.Background(), "text", lang.Czech)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status error, got %v", err)
	}
}
