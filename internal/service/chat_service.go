package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"opsnexus_backend/internal/config"
	"opsnexus_backend/pkg/logger"

	"go.uber.org/zap"
)

// OpsBot 的人设提示词。回答范围限定在 DevOps 学习话题内。
const opsBotSystemPrompt = "You are OpsBot, a friendly Senior DevOps Engineer mentoring learners on a DevOps practice platform. " +
	"Help users with Docker, Kubernetes, Terraform, CI/CD pipelines, Linux, cloud infrastructure and monitoring. " +
	"Keep answers concise and practical, prefer concrete commands and configuration snippets over theory. " +
	"If a question is unrelated to DevOps or software engineering, politely steer the conversation back to DevOps topics."

// 助手不可用时返回的固定话术，接口永远不向前端抛错
const (
	chatKeyMissingReply = "OpsBot is offline: no AI API key is configured. Ask the administrator to set one up."
	chatFailureReply    = "OpsBot hit a snag while thinking. Please try again in a moment."
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type ChatService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewChatService(cfg config.AIConfig) *ChatService {
	return &ChatService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// UpdateConfig 配置热加载时替换 AI 接入参数，进行中的请求不受影响
func (s *ChatService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *ChatService) currentConfig() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Ask 向 AI 服务提问并返回回答。history 是本轮会话之前的对话记录。
// 任何失败（没配 key、网络错误、上游报错）都降级为固定话术，
// 接口本身不返回错误。
func (s *ChatService) Ask(ctx context.Context, question string, history []ChatMessage) string {
	cfg := s.currentConfig()
	if cfg.APIKey == "" {
		return chatKeyMissingReply
	}

	messages := []ChatMessage{{Role: "system", Content: opsBotSystemPrompt}}
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: question})

	answer, err := s.complete(ctx, cfg, messages)
	if err != nil {
		logger.Log.Error("AI chat request failed", zap.Error(err))
		return chatFailureReply
	}
	return answer
}

func (s *ChatService) complete(ctx context.Context, cfg config.AIConfig, messages []ChatMessage) (string, error) {
	reqBody := chatCompletionRequest{
		Model:    cfg.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}
