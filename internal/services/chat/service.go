// File: internal/services/chat/service.go
package chat

import (
	"errors"

	"github.com/iyunix/go-sqlchat/internal/services/ai"
)

// Service runs chat sessions: session bookkeeping and the send-message flow.
type Service struct {
	store    Store
	gateway  ai.Gateway
	renderer Renderer
	tables   TableExtractor
	config   *Config
	logger   Logger
	locks    *chatLocks
}

// NewService wires a chat service. renderer may be nil, in which case
// replies carry no HTML.
func NewService(store Store, gateway ai.Gateway, renderer Renderer, config *Config, logger Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if gateway == nil {
		return nil, errors.New("AI gateway cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &ChatError{Type: ErrTypeConfig, Operation: "new_service", Message: err.Error()}
	}

	return &Service{
		store:    store,
		gateway:  gateway,
		renderer: renderer,
		tables:   RegexTableExtractor{},
		config:   config,
		logger:   logger,
		locks:    newChatLocks(),
	}, nil
}

// WithTableExtractor swaps the table-name heuristic.
func (s *Service) WithTableExtractor(t TableExtractor) *Service {
	if t != nil {
		s.tables = t
	}
	return s
}
