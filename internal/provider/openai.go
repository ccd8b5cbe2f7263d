// Package provider builds the OpenAI client shared by the chat, speech
// recognition and speech synthesis stages.
package provider

import (
	"errors"
	"net/http"
	"os"
	"sync"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const EnvAPIKey = "OPENAI_API_KEY"

var ErrMissingCredential = errors.New(EnvAPIKey + " not set")

// OpenAI creates the client on first use. When no key was supplied up front
// the environment is consulted again at that point.
type OpenAI struct {
	mu     sync.Mutex
	key    string
	opts   []option.RequestOption
	client *openai.Client
	getenv func(string) string
}

type Option func(*OpenAI)

func WithHTTPClient(c *http.Client) Option {
	return func(p *OpenAI) {
		if c != nil {
			p.opts = append(p.opts, option.WithHTTPClient(c))
		}
	}
}

func WithBaseURL(url string) Option {
	return func(p *OpenAI) {
		if url != "" {
			p.opts = append(p.opts, option.WithBaseURL(url))
		}
	}
}

func NewOpenAI(key string, opts ...Option) *OpenAI {
	p := &OpenAI{
		key:    key,
		getenv: os.Getenv,
		// failures are reported once, never retried
		opts: []option.RequestOption{option.WithMaxRetries(0)},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Client returns the shared client or ErrMissingCredential.
func (p *OpenAI) Client() (*openai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	key := p.key
	if key == "" {
		key = p.getenv(EnvAPIKey)
	}
	if key == "" {
		return nil, ErrMissingCredential
	}

	opts := append([]option.RequestOption{option.WithAPIKey(key)}, p.opts...)
	c := openai.NewClient(opts...)
	p.key = key
	p.client = &c
	return p.client, nil
}
