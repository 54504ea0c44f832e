package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/pigdice-go/internal/dependencies/mocks"
	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/services/bot"
	"github.com/mcoot/pigdice-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIdent  *mocks.MockIdent
}

// NewTestApp creates an App configured for testing with mocked
// dependencies and the default rule set
func NewTestApp() *TestApp {
	return NewTestAppWithRules(model.DefaultRules())
}

// NewTestAppWithRules creates a TestApp whose sessions start from the
// given rules
func NewTestAppWithRules(rules model.Rules) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIdent := mocks.NewMockIdent()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, mockIdent, rules, bot.Config{}, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIdent:  mockIdent,
	}
}
