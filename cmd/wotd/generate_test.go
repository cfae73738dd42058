package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/wotd/internal/application/handlers"
	"github.com/ersonp/wotd/internal/domain/entities"
)

const (
	validReply = `{
	"word": "ephemeral",
	"part_of_speech": "adjective",
	"definition": "Lasting for a very short time.",
	"example_sentence": "The beauty of cherry blossoms is ephemeral.",
	"etymology": "From Greek ephemeros, meaning lasting only a day.",
	"pronunciation": "ih-FEM-er-ul"
}`
	// Schema-conformant but the etymology lacks its closing full stop.
	unterminatedReply = `{
	"word": "lugubrious",
	"part_of_speech": "adjective",
	"definition": "Looking or sounding sad and dismal.",
	"example_sentence": "His lugubrious voice filled the empty hall.",
	"etymology": "From Latin lugubris, from lugere meaning to mourn",
	"pronunciation": null
}`
)

// fakeUpstream serves scripted chat completion replies in order; the last
// reply repeats once the script runs out.
type fakeUpstream struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	reply := f.replies[min(f.calls, len(f.replies)-1)]
	f.calls++
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "gpt-5-nano",
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: reply,
			},
			FinishReason: openai.FinishReasonStop,
		}},
	})
}

func (f *fakeUpstream) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// withUpstream points the generator at a fake OpenAI endpoint.
func withUpstream(t *testing.T, replies ...string) *fakeUpstream {
	t.Helper()
	upstream := &fakeUpstream{replies: replies}
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("WOTD_LLM_BASE_URL", server.URL+"/v1")
	return upstream
}

func TestGenerateCommand_CreatesThenReturnsExisting(t *testing.T) {
	resetGlobals(t)
	cfgPath := workspace(t)
	upstream := withUpstream(t, validReply)

	out, err := execute(t, "--config", cfgPath, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated new Word of the Day, ephemeral")
	assert.Equal(t, 1, upstream.Calls())

	out, err = execute(t, "--config", cfgPath, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "already generated, ephemeral")
	assert.Equal(t, 1, upstream.Calls(), "existing entry needs no upstream call")

	out, err = execute(t, "--config", cfgPath, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "ephemeral")
}

func TestGenerateCommand_JSON(t *testing.T) {
	resetGlobals(t)
	cfgPath := workspace(t)
	withUpstream(t, validReply)

	out, err := execute(t, "--config", cfgPath, "--json", "generate")
	require.NoError(t, err)

	var result struct {
		Entry   map[string]any `json:"entry"`
		Created bool           `json:"created"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Created)
	assert.Equal(t, "ephemeral", result.Entry["word"])
	assert.Equal(t, "ih-FEM-er-ul", result.Entry["pronunciation"])
}

func TestGenerateCommand_Retries(t *testing.T) {
	tests := []struct {
		name      string
		retries   string
		replies   []string
		wantCalls int
		wantOut   string
		wantErr   bool
	}{
		{
			name:      "rejected content without retries",
			retries:   "0",
			replies:   []string{unterminatedReply, validReply},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name:      "rejected content then success",
			retries:   "1",
			replies:   []string{unterminatedReply, validReply},
			wantCalls: 2,
			wantOut:   "Generated new Word of the Day, ephemeral",
		},
		{
			name:      "unparseable reply then success",
			retries:   "2",
			replies:   []string{"not json", validReply},
			wantCalls: 2,
			wantOut:   "Generated new Word of the Day, ephemeral",
		},
		{
			name:      "attempts exhausted",
			retries:   "2",
			replies:   []string{unterminatedReply},
			wantCalls: 3,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			cfgPath := workspace(t)
			upstream := withUpstream(t, tt.replies...)

			out, err := execute(t, "--config", cfgPath, "generate", "--retries", tt.retries, "--retry-delay", "1ms")
			assert.Equal(t, tt.wantCalls, upstream.Calls())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, entities.ErrGeneration)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestGenerateWithRetry(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	created := &handlers.WordResult{
		Entry:   &entities.Entry{Date: "2025-01-01", Fields: entities.Fields{Word: "ephemeral"}},
		Created: true,
	}
	diskFull := errors.New("disk full")

	tests := []struct {
		name      string
		errs      []error
		retries   int
		wantCalls int
		wantErr   error
	}{
		{
			name:      "first attempt succeeds",
			errs:      []error{nil},
			retries:   3,
			wantCalls: 1,
		},
		{
			name:      "generation failure is retried",
			errs:      []error{entities.ErrGeneration, nil},
			retries:   1,
			wantCalls: 2,
		},
		{
			name:      "store failure is not retried",
			errs:      []error{diskFull, nil},
			retries:   3,
			wantCalls: 1,
			wantErr:   diskFull,
		},
		{
			name:      "missing generator is not retried",
			errs:      []error{errors.New("no generator configured"), nil},
			retries:   3,
			wantCalls: 1,
		},
		{
			name:      "last generation error is returned",
			errs:      []error{entities.ErrGeneration, entities.ErrGeneration},
			retries:   1,
			wantCalls: 2,
			wantErr:   entities.ErrGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			generate := func(ctx context.Context) (*handlers.WordResult, error) {
				err := tt.errs[min(calls, len(tt.errs)-1)]
				calls++
				if err != nil {
					return nil, err
				}
				return created, nil
			}

			result, err := generateWithRetry(t.Context(), generate, tt.retries, time.Millisecond, logger)
			assert.Equal(t, tt.wantCalls, calls)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
			case tt.errs[0] != nil && !errors.Is(tt.errs[0], entities.ErrGeneration):
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, created, result)
			}
		})
	}
}
