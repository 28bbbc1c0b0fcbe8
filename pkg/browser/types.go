package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string
}

// Engine selects which browser engine a session launches.
type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"
	EngineWebKit   Engine = "webkit"
)

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Engine selects the browser engine (default: chromium)
	Engine Engine

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful.
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// ExtractFormat specifies the format for content extraction.
type ExtractFormat string

const (
	// FormatText extracts plain text only (default)
	FormatText ExtractFormat = "text"

	// FormatMarkdown extracts content as Markdown
	FormatMarkdown ExtractFormat = "markdown"

	// FormatHTML extracts cleaned HTML with scripts and styles stripped
	FormatHTML ExtractFormat = "html"
)

// ExtractOptions configures content extraction.
type ExtractOptions struct {
	// Format specifies the extraction format
	Format ExtractFormat

	// Selector optionally limits extraction to matching elements
	Selector string

	// MaxLength limits the extracted content length (characters)
	MaxLength int
}

// ClickOptions configures element clicking behavior.
type ClickOptions struct {
	// Selector identifies the element to click
	Selector string

	// Button specifies which mouse button to use (left, right, middle)
	Button string

	// ClickCount is the number of times to click (1 for single, 2 for double)
	ClickCount int

	// Timeout in milliseconds
	Timeout float64
}

// FillOptions configures form input filling.
type FillOptions struct {
	// Selector identifies the input element
	Selector string

	// Value is the text to fill
	Value string

	// PressEnter submits the input by pressing Enter after filling
	PressEnter bool

	// Timeout in milliseconds
	Timeout float64
}

// WaitOptions configures waiting behavior.
type WaitOptions struct {
	// Selector to wait for
	Selector string

	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout in milliseconds
	Timeout float64
}

// ScreenshotOptions configures screenshot capture.
type ScreenshotOptions struct {
	// Path is the file to write the image to
	Path string

	// FullPage captures the whole scrollable page instead of the viewport
	FullPage bool

	// Selector optionally limits the capture to one element
	Selector string

	// Timeout in milliseconds
	Timeout float64
}

// EvaluateOptions configures JavaScript evaluation.
type EvaluateOptions struct {
	// Expression is the JavaScript to evaluate in the page
	Expression string
}

// SearchOptions configures page text search.
type SearchOptions struct {
	// Pattern is the text to search for
	Pattern string

	// CaseSensitive controls case-sensitive matching
	CaseSensitive bool

	// MaxResults limits the number of results returned
	MaxResults int
}

// SearchResult represents a single search match.
type SearchResult struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name       string
	CurrentURL string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Default values for various operations
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultMaxLength      = 10000   // 10,000 characters
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
	DefaultIdleTimeout    = 300 // 5 minutes in seconds
)

// ValidWaitUntil reports whether s is an accepted navigation wait state.
func ValidWaitUntil(s string) bool {
	switch s {
	case "load", "domcontentloaded", "networkidle":
		return true
	}
	return false
}

// ValidButton reports whether s is an accepted mouse button.
func ValidButton(s string) bool {
	switch s {
	case "", "left", "right", "middle":
		return true
	}
	return false
}

// ValidWaitState reports whether s is an accepted element wait state.
func ValidWaitState(s string) bool {
	switch s {
	case "", "attached", "detached", "visible", "hidden":
		return true
	}
	return false
}
