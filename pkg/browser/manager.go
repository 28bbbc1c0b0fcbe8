package browser

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// SessionManager owns the Playwright runtime and all active browser sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	idleTimeout time.Duration
	initialized bool
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: time.Duration(DefaultIdleTimeout) * time.Second,
	}
}

// Initialize installs (if needed) and starts the Playwright driver. It must
// be called before creating any sessions.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Discard driver output so it does not interleave with command output.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// StartSession creates a new browser session with the given name and options.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}
	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	browser, err := m.launch(opts)
	if err != nil {
		return nil, err
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	}
	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	now := time.Now()
	session := &Session{
		Name:       name,
		Browser:    browser,
		Context:    context,
		Page:       page,
		Headless:   opts.Headless,
		CreatedAt:  now,
		LastUsedAt: now,
		CurrentURL: "about:blank",
	}

	m.sessions[name] = session
	return session, nil
}

// launch starts a browser of the requested engine. Callers hold m.mu.
func (m *SessionManager) launch(opts SessionOptions) (playwright.Browser, error) {
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	}

	var browserType playwright.BrowserType
	switch opts.Engine {
	case EngineFirefox:
		browserType = m.playwright.Firefox
	case EngineWebKit:
		browserType = m.playwright.WebKit
	case EngineChromium, "":
		browserType = m.playwright.Chromium
	default:
		return nil, fmt.Errorf("unknown browser engine: %s", opts.Engine)
	}

	browser, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return browser, nil
}

// CloseSession closes and removes a browser session.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	// Best-effort cleanup; the session is removed regardless.
	_ = session.Page.Close()
	_ = session.Context.Close()
	_ = session.Browser.Close()

	delete(m.sessions, name)
	return nil
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}
	return session, nil
}

// ListSessions returns information about all active sessions.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, SessionInfo{
			Name:       session.Name,
			CurrentURL: session.CurrentURL,
			Headless:   session.Headless,
			CreatedAt:  session.CreatedAt,
			LastUsedAt: session.LastUsedAt,
		})
	}
	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CleanupIdleSessions closes sessions idle for longer than the idle timeout.
func (m *SessionManager) CleanupIdleSessions() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var errs []error
	for name, session := range m.sessions {
		if now.Sub(session.LastUsedAt) <= m.idleTimeout {
			continue
		}
		if err := session.Page.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := session.Context.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := session.Browser.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.sessions, name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during cleanup: %v", errs)
	}
	return nil
}

// Shutdown closes all sessions and stops the Playwright driver.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		session.Page.Close()
		session.Context.Close()
		session.Browser.Close()
		delete(m.sessions, name)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets the idle timeout duration.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}
