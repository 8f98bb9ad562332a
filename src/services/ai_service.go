package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/models"
)

// ErrExtractionUnavailable means the extraction backend could not be
// reached at all. Distinct from a reachable model returning garbage,
// which degrades to an empty result instead.
var ErrExtractionUnavailable = errors.New("transaction extraction service unavailable")

const extractionSystemPrompt = `You are an expert at reading Dutch bank statements from all major banks (ING, Revolut, ABN AMRO, Rabobank, ASN Bank, etc.).

Analyze the bank statement text and extract ALL transactions. Be very thorough and find every single transaction.

Instructions:
1. Find and extract EVERY transaction (money movement) in the text
2. Skip account balances, headers, footers, and summary information
3. Look for patterns like: dates, descriptions, amounts with +/- or Af/Bij or card payments
4. Convert ALL date formats to YYYY-MM-DD (from DD-MM-YYYY, DD/MM/YYYY, "01 Jan 2024", etc.)
5. Determine transaction type:
   - INCOME: Bij, +, salary, salaris, interest, rente, refund, deposit, income, wages
   - EXPENSE: Af, -, card payment, betaling, purchase, aankoop, withdrawal, opname
6. Smart categorization based on merchant/description:
   - groceries: Albert Heijn, Jumbo, Lidl, Aldi, supermarket, grocery
   - transport: Shell, BP, Esso, petrol, benzine, train, bus, taxi, parking
   - dining: restaurant, cafe, McDonald's, KFC, food delivery
   - entertainment: Netflix, Spotify, cinema, movie, theater
   - utilities: gas, water, electricity, internet, phone, telecom
   - healthcare: doctor, hospital, pharmacy, dentist, medical
   - shopping: clothing, electronics, Amazon, bol.com, retail
   - housing: rent, huur, mortgage, hypotheek, insurance
   - salary: salary, salaris, wages, loon, income
7. Clean descriptions: remove extra codes, numbers, and clean up text

Return ONLY this exact JSON structure:
{
  "transactions": [
    {
      "date": "2024-01-15",
      "description": "Albert Heijn Amsterdam",
      "amount": 25.50,
      "category": "groceries",
      "type": "expense"
    }
  ],
  "bankDetected": "ING Bank",
  "summary": "Found X transactions from date Y to date Z, total expenses X, total income Y"
}`

const adviceSystemPrompt = "You are Finwise AI, a friendly and knowledgeable personal finance advisor. Always be encouraging and provide practical advice. IMPORTANT: Always respond in English, regardless of the user's input language or location."

// AIService wraps the OpenAI chat completion API for statement text
// extraction and financial advice. A missing API key leaves the client
// nil; every call then fails with ErrExtractionUnavailable.
type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService(apiKey, model string) *AIService {
	s := &AIService{model: model}
	if apiKey == "" {
		logger.L.Warn("OPENAI_API_KEY not set; AI extraction and advice are disabled")
		return s
	}
	s.client = openai.NewClient(apiKey)
	return s
}

// ExtractTransactions asks the model to extract transactions from
// free-form statement text. Transport failures surface as
// ErrExtractionUnavailable; unparseable model output degrades to an
// empty transaction list with a diagnostic summary, never an error.
func (s *AIService) ExtractTransactions(ctx context.Context, text string) (*models.ExtractionResult, error) {
	if s.client == nil {
		return nil, ErrExtractionUnavailable
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Bank Statement Text:\n" + text},
		},
		Temperature: 0.1,
	})
	if err != nil {
		logger.L.Error("OpenAI extraction request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrExtractionUnavailable)
	}

	return parseExtractionResponse(resp.Choices[0].Message.Content), nil
}

// parseExtractionResponse defensively re-parses the model output. The
// model is asked for bare JSON but may wrap it in markdown fences or
// prose; anything still unreadable after cleaning yields an empty
// result with a diagnostic summary.
func parseExtractionResponse(content string) *models.ExtractionResult {
	cleaned := cleanModelJSON(content)

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		logger.L.Warn("Model returned unparseable extraction JSON", "error", err)
		return &models.ExtractionResult{
			Transactions: []models.RawTransactionCandidate{},
			BankDetected: "unknown",
			Summary:      "Could not parse the extraction response; no transactions were recognized.",
		}
	}
	if result.Transactions == nil {
		result.Transactions = []models.RawTransactionCandidate{}
	}
	if result.BankDetected == "" {
		result.BankDetected = "unknown"
	}
	if result.Summary == "" {
		result.Summary = fmt.Sprintf("Found %d transactions", len(result.Transactions))
	}
	return &result
}

// cleanModelJSON strips markdown code fences and any prose around the
// outermost JSON object.
func cleanModelJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// GetFinancialAdvice generates short, actionable advice from the user's
// current financial snapshot. An optional question steers the answer.
func (s *AIService) GetFinancialAdvice(ctx context.Context, snapshot models.FinancialSnapshot, question string) (string, error) {
	if s.client == nil {
		return "", ErrExtractionUnavailable
	}

	var sb strings.Builder
	if question != "" {
		fmt.Fprintf(&sb, "The user has asked: %q\n\n", question)
	}
	fmt.Fprintf(&sb, "USER'S FINANCIAL DATA:\n")
	fmt.Fprintf(&sb, "- Current Cash Balance: %.2f\n", snapshot.CashBalance)
	fmt.Fprintf(&sb, "- Monthly Expenses: %.2f (Fixed: %.2f, Variable: %.2f, Income: %.2f)\n",
		snapshot.MonthlyExpenses.Total, snapshot.MonthlyExpenses.Fixed,
		snapshot.MonthlyExpenses.Variable, snapshot.MonthlyExpenses.Income)
	if len(snapshot.RecentExpenses) > 0 {
		sb.WriteString("- Recent Expenses: ")
		limit := len(snapshot.RecentExpenses)
		if limit > 5 {
			limit = 5
		}
		for i, e := range snapshot.RecentExpenses[:limit] {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%.2f on %s (%s)", e.Amount, e.Description, e.Type)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(`
PROVIDE:
1. A brief assessment of their financial health (2-3 sentences)
2. How much they can safely spend this month
3. One specific actionable tip for improvement
4. One positive reinforcement

Keep it friendly, concise (under 150 words), and encouraging. Use euros for all amounts.`)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: adviceSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		logger.L.Error("OpenAI advice request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrExtractionUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}
