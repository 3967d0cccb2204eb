package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"cozypocket/internal/core"
	"cozypocket/internal/taxonomy"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.5-flash"

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// contentGenerator is the slice of *genai.Models the parser needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini parses free text with a Gemini model constrained to a JSON schema.
type Gemini struct {
	models contentGenerator
	model  string
	today  func() core.Date
}

// NewGemini creates a parser backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, model), nil
}

func newGemini(models contentGenerator, model string) *Gemini {
	if model == "" {
		model = DefaultModelName
	}
	return &Gemini{
		models: models,
		model:  model,
		today:  func() core.Date { return core.DateOf(time.Now()) },
	}
}

// modelOutput mirrors the response schema. Fields stay loose strings so a
// single odd value cannot fail the whole decode.
type modelOutput struct {
	Amount        *float64 `json:"amount"`
	Type          string   `json:"type"`
	CategoryID    string   `json:"categoryId"`
	SubCategoryID string   `json:"subCategoryId"`
	Merchant      string   `json:"merchant"`
	Note          string   `json:"note"`
	PaymentMethod string   `json:"paymentMethod"`
	Date          *string  `json:"date"`
}

func (g *Gemini) Parse(ctx context.Context, text string) (Suggestion, error) {
	prompt := fmt.Sprintf("Today is %s.\nTransaction: %s", g.today(), strings.TrimSpace(text))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		return Suggestion{}, ErrEmptyResponse
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &out); err != nil {
		return Suggestion{}, fmt.Errorf("unmarshal model JSON: %w", err)
	}
	return out.suggestion(), nil
}

func (o modelOutput) suggestion() Suggestion {
	var s Suggestion
	if o.Amount != nil {
		s.Amount = decimal.NewNullDecimal(decimal.NewFromFloat(*o.Amount))
	}
	if t, err := core.ParseType(o.Type); err == nil && o.Type != "" {
		s.Type = t
	}
	s.CategoryID = strings.TrimSpace(o.CategoryID)
	s.SubCategoryID = strings.TrimSpace(o.SubCategoryID)
	s.Merchant = strings.TrimSpace(o.Merchant)
	s.Note = strings.TrimSpace(o.Note)
	if p, err := core.ParsePaymentMethod(o.PaymentMethod); err == nil {
		s.PaymentMethod = p
	}
	if o.Date != nil {
		if d, err := core.ParseDate(*o.Date); err == nil {
			s.Date = d
		}
	}
	return s
}

func systemInstruction() string {
	var b strings.Builder
	b.WriteString("You are a meticulous bookkeeper. Extract a single transaction from the user's text.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- amount is a positive number without currency symbols.\n")
	b.WriteString("- type is \"expense\" unless the text clearly describes money received.\n")
	b.WriteString("- categoryId must be one of the ids below for the chosen type. If unsure use \"misc\" for expenses and \"other_income\" for income.\n")
	b.WriteString("- subCategoryId is only for expenses and must belong to the chosen category.\n")
	b.WriteString("- paymentMethod is one of cash, credit_card, e_payment, transfer. Default to cash.\n")
	b.WriteString("- date is YYYY-MM-DD when the text names a day, otherwise null.\n\n")

	b.WriteString("Expense categories (category: subcategories):\n")
	for _, c := range taxonomy.Expense() {
		subs := make([]string, len(c.Subcategories))
		for i, s := range c.Subcategories {
			subs[i] = s.ID
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", c.ID, c.Name, strings.Join(subs, ", "))
	}
	b.WriteString("\nIncome categories:\n")
	for _, c := range taxonomy.Income() {
		fmt.Fprintf(&b, "- %s (%s)\n", c.ID, c.Name)
	}
	return b.String()
}

func responseSchema() *genai.Schema {
	nullable := true
	payment := make([]string, len(core.PaymentMethods))
	for i, p := range core.PaymentMethods {
		payment[i] = string(p)
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"amount":        {Type: genai.TypeNumber},
			"type":          {Type: genai.TypeString, Enum: []string{string(core.Expense), string(core.Income)}},
			"categoryId":    {Type: genai.TypeString},
			"subCategoryId": {Type: genai.TypeString, Nullable: &nullable},
			"merchant":      {Type: genai.TypeString, Nullable: &nullable},
			"note":          {Type: genai.TypeString, Nullable: &nullable},
			"paymentMethod": {Type: genai.TypeString, Enum: payment},
			"date":          {Type: genai.TypeString, Nullable: &nullable, Description: "YYYY-MM-DD"},
		},
		Required: []string{"amount", "type", "categoryId", "paymentMethod"},
	}
}

// cleanModelJSON strips Markdown fences and anything outside the outermost
// object, for models that ignore the MIME type.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
