// Package openai provides a Generator implementation using OpenAI structured output.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/infrastructure/config"
)

const defaultModel = "gpt-5-nano"

const userMessage = "Generate the word of the day."

// Generator implements ports.Generator using the OpenAI chat completions API.
// Each call is a single request; retries are left to the caller.
type Generator struct {
	client     *openai.Client
	model      string
	schemaJSON json.RawMessage
	schema     *jsonschema.Schema
}

// NewGenerator creates a new OpenAI generator whose output schema is derived
// from bounds.
func NewGenerator(cfg config.LLMConfig, bounds entities.FieldBounds) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := defaultModel
	if cfg.Model != "" {
		model = cfg.Model
	}

	schemaJSON, err := json.Marshal(bounds.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshaling output schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("loading output schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling output schema: %w", err)
	}

	return &Generator{
		client:     openai.NewClientWithConfig(oc),
		model:      model,
		schemaJSON: schemaJSON,
		schema:     schema,
	}, nil
}

// Model returns the model name requests are sent to.
func (g *Generator) Model() string {
	return g.model
}

// rawFields mirrors the output schema. A null pronunciation decodes to nil.
type rawFields struct {
	Word            string  `json:"word"`
	PartOfSpeech    string  `json:"part_of_speech"`
	Definition      string  `json:"definition"`
	ExampleSentence string  `json:"example_sentence"`
	Etymology       string  `json:"etymology"`
	Pronunciation   *string `json:"pronunciation"`
}

// Generate requests one schema-constrained entry.
func (g *Generator) Generate(ctx context.Context, instruction string) (entities.Fields, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   entities.SchemaName,
				Schema: g.schemaJSON,
				Strict: true,
			},
		},
	})
	if err != nil {
		return entities.Fields{}, fmt.Errorf("%w: calling OpenAI: %w", entities.ErrGeneration, err)
	}

	if len(resp.Choices) == 0 {
		return entities.Fields{}, fmt.Errorf("%w: no response from OpenAI", entities.ErrGeneration)
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return entities.Fields{}, fmt.Errorf("%w: model refused: %s", entities.ErrGeneration, choice.Message.Refusal)
	}
	if choice.FinishReason == openai.FinishReasonLength {
		return entities.Fields{}, fmt.Errorf("%w: response truncated", entities.ErrGeneration)
	}

	return g.parse(choice.Message.Content)
}

// parse checks content against the output schema and decodes it.
func (g *Generator) parse(content string) (entities.Fields, error) {
	content = cleanJSONResponse(content)
	if content == "" {
		return entities.Fields{}, fmt.Errorf("%w: empty response", entities.ErrGeneration)
	}

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return entities.Fields{}, fmt.Errorf("%w: parsing response JSON: %w", entities.ErrGeneration, err)
	}
	if err := g.schema.Validate(doc); err != nil {
		verr := &entities.ValidationError{Field: "response", Reason: "does not match output schema: " + err.Error()}
		return entities.Fields{}, fmt.Errorf("%w: %w", entities.ErrGeneration, verr)
	}

	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	var raw rawFields
	if err := dec.Decode(&raw); err != nil {
		return entities.Fields{}, fmt.Errorf("%w: decoding response: %w", entities.ErrGeneration, err)
	}

	fields := entities.Fields{
		Word:            raw.Word,
		PartOfSpeech:    raw.PartOfSpeech,
		Definition:      raw.Definition,
		ExampleSentence: raw.ExampleSentence,
		Etymology:       raw.Etymology,
	}
	if raw.Pronunciation != nil {
		fields.Pronunciation = *raw.Pronunciation
	}
	return fields, nil
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
