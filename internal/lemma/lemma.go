// Package lemma tokenizes, tags and lemmatizes sentences through UDPipe.
package lemma

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/valpere/numfix/internal/lang"
)

const DefaultURL = "http://lindat.mff.cuni.cz/services/udpipe/api/process"

// Token is one analysed word. Start and End are byte offsets into the text.
type Token struct {
	Word  string
	Lemma string
	UPOS  string
	Start int
	End   int
}

// IsNumeral reports whether the tagger marked the token as a numeral.
func (t Token) IsNumeral() bool { return t.UPOS == "NUM" }

// IsDigits reports whether the token is written with digits.
func (t Token) IsDigits() bool {
	for _, r := range t.Word {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool { return t.UPOS == "PUNCT" }

type Lemmatizer interface {
	Lemmatize(ctx context.Context, text string, l *lang.Language) ([]Token, error)
}

// UDPipe calls the UDPipe REST service.
type UDPipe struct {
	baseURL string
	client  *http.Client
	models  map[string]string
}

func NewUDPipe(baseURL string, timeout time.Duration) *UDPipe {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &UDPipe{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		models: map[string]string{
			lang.Czech.Code:   "",
			lang.English.Code: "english",
		},
	}
}

func (u *UDPipe) Lemmatize(ctx context.Context, text string, l *lang.Language) ([]Token, error) {
	params := url.Values{}
	params.Set("tokenizer", "ranges")
	params.Set("tagger", "")
	params.Set("parser", "")
	if model := u.models[l.Code]; model != "" {
		params.Set("model", model)
	}
	params.Set("data", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lemmatizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("lemmatizer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Model  string `json:"model"`
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lemmatizer response: %w", err)
	}

	return ParseCoNLLU(payload.Result, text)
}

// ParseCoNLLU reads tokens from CoNLL-U output produced with ranges
// tokenization. Multi-word token lines and words without a TokenRange are
// skipped.
func ParseCoNLLU(conllu, text string) ([]Token, error) {
	offsets := byteOffsets(text)

	var tokens []Token
	sc := bufio.NewScanner(strings.NewReader(conllu))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 10 {
			return nil, fmt.Errorf("malformed CoNLL-U line: %q", line)
		}
		if strings.ContainsAny(fields[0], "-.") {
			continue
		}

		start, end, ok := tokenRange(fields[9])
		if !ok {
			continue
		}
		if start < 0 || end > len(offsets)-1 || start > end {
			return nil, fmt.Errorf("token range %d:%d outside text", start, end)
		}

		tokens = append(tokens, Token{
			Word:  fields[1],
			Lemma: fields[2],
			UPOS:  fields[3],
			Start: offsets[start],
			End:   offsets[end],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CoNLL-U: %w", err)
	}
	return tokens, nil
}

func tokenRange(misc string) (int, int, bool) {
	for _, item := range strings.Split(misc, "|") {
		value, found := strings.CutPrefix(item, "TokenRange=")
		if !found {
			continue
		}
		s, e, found := strings.Cut(value, ":")
		if !found {
			return 0, 0, false
		}
		start, err1 := strconv.Atoi(s)
		end, err2 := strconv.Atoi(e)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return start, end, true
	}
	return 0, 0, false
}

// byteOffsets maps rune index to byte offset; the extra last entry is len(text).
func byteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
