// Package aisvc - oracle ngôn ngữ tự nhiên (Gemini) và dispatcher ý định.
package aisvc

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Oracle là khả năng sinh text từ prompt. Interface để test inject fake.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiOracle hiện thực Oracle trên Gemini, JSON mode, temperature 0
type GeminiOracle struct {
	client *genai.Client
	model  string
}

// NewGeminiOracle tạo oracle với API key và model từ config.
// Client tạo một lần lúc khởi động và dùng suốt vòng đời process.
func NewGeminiOracle(ctx context.Context, apiKey string, model string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("thiếu GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("không tạo được Gemini client: %w", err)
	}
	return &GeminiOracle{client: client, model: model}, nil
}

// Generate gọi Gemini với JSON mode và temperature 0 để ra kết quả ổn định
func (o *GeminiOracle) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Models.GenerateContent(ctx, o.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
