package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// Click clicks an element matching the selector.
func (s *Session) Click(opts ClickOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageClickOptions{}
	if opts.Button != "" {
		button := playwright.MouseButton(opts.Button)
		playwrightOpts.Button = &button
	}
	if opts.ClickCount > 0 {
		playwrightOpts.ClickCount = &opts.ClickCount
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Click(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	// The click may have caused navigation.
	s.CurrentURL = s.Page.URL()
	return nil
}

// Fill fills an input element with the specified value, optionally pressing
// Enter afterwards to submit.
func (s *Session) Fill(opts FillOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageFillOptions{}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Fill(opts.Selector, opts.Value, playwrightOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}

	if opts.PressEnter {
		if err := s.Page.Press(opts.Selector, "Enter"); err != nil {
			return fmt.Errorf("press enter failed: %w", err)
		}
		s.CurrentURL = s.Page.URL()
	}
	return nil
}

// Wait waits for an element to reach the requested state.
func (s *Session) Wait(opts WaitOptions) error {
	s.UpdateLastUsed()

	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	playwrightOpts := playwright.PageWaitForSelectorOptions{}
	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.WaitForSelector(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// Screenshot captures the page (or one element) to the file at opts.Path and
// returns the number of bytes written.
func (s *Session) Screenshot(opts ScreenshotOptions) (int, error) {
	s.UpdateLastUsed()

	if opts.Path == "" {
		return 0, fmt.Errorf("screenshot path is required")
	}

	var (
		data []byte
		err  error
	)
	if opts.Selector != "" {
		locatorOpts := playwright.LocatorScreenshotOptions{Path: &opts.Path}
		if opts.Timeout > 0 {
			locatorOpts.Timeout = &opts.Timeout
		}
		data, err = s.Page.Locator(opts.Selector).Screenshot(locatorOpts)
	} else {
		pageOpts := playwright.PageScreenshotOptions{
			Path:     &opts.Path,
			FullPage: &opts.FullPage,
		}
		if opts.Timeout > 0 {
			pageOpts.Timeout = &opts.Timeout
		}
		data, err = s.Page.Screenshot(pageOpts)
	}
	if err != nil {
		return 0, fmt.Errorf("screenshot failed: %w", err)
	}
	return len(data), nil
}

// Evaluate runs a JavaScript expression in the page and returns its result.
func (s *Session) Evaluate(opts EvaluateOptions) (interface{}, error) {
	s.UpdateLastUsed()

	if opts.Expression == "" {
		return nil, fmt.Errorf("expression is required")
	}

	result, err := s.Page.Evaluate(opts.Expression)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

// ExtractContent extracts page content in the specified format.
func (s *Session) ExtractContent(opts ExtractOptions) (string, error) {
	s.UpdateLastUsed()

	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = DefaultMaxLength
	}

	switch opts.Format {
	case FormatText:
		return s.extractText(opts)
	case FormatMarkdown:
		return s.extractMarkdown(opts)
	case FormatHTML:
		return s.extractHTML(opts)
	default:
		return "", fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// extractText extracts plain text content from the page or selector.
func (s *Session) extractText(opts ExtractOptions) (string, error) {
	selector := opts.Selector
	if selector == "" {
		selector = "body"
	}

	element, err := s.Page.QuerySelector(selector)
	if err != nil {
		return "", fmt.Errorf("selector query failed: %w", err)
	}
	if element == nil {
		return "", fmt.Errorf("no element found matching selector: %s", selector)
	}

	content, err := element.TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}

	if len(content) > opts.MaxLength {
		truncated := content[:opts.MaxLength]
		warning := fmt.Sprintf("\n\n[Content truncated: %d of %d characters shown]", opts.MaxLength, len(content))
		return truncated + warning, nil
	}
	return content, nil
}

// extractMarkdown extracts content with the page title as a heading.
func (s *Session) extractMarkdown(opts ExtractOptions) (string, error) {
	var markdown string

	title, err := s.Page.Title()
	if err == nil && title != "" {
		markdown = fmt.Sprintf("# %s\n\n", title)
	}

	text, err := s.extractText(opts)
	if err != nil {
		return "", err
	}
	return markdown + text, nil
}

// extractHTML extracts the page markup with noise elements stripped.
func (s *Session) extractHTML(opts ExtractOptions) (string, error) {
	raw, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}

	cleaned, err := cleanHTML(raw, opts.MaxLength)
	if err != nil {
		return "", err
	}
	return cleaned.HTML, nil
}

// Search searches the page's visible text for the pattern.
func (s *Session) Search(opts SearchOptions) ([]SearchResult, error) {
	s.UpdateLastUsed()

	body, err := s.extractText(ExtractOptions{MaxLength: 1 << 20})
	if err != nil {
		return nil, fmt.Errorf("failed to get page text: %w", err)
	}
	return searchText(body, opts), nil
}

// searchText finds occurrences of opts.Pattern in body, each with a little
// surrounding context.
func searchText(body string, opts SearchOptions) []SearchResult {
	if opts.Pattern == "" {
		return nil
	}

	haystack := body
	needle := opts.Pattern
	if !opts.CaseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}

	const contextRadius = 50

	var results []SearchResult
	index := 0
	for {
		pos := strings.Index(haystack[index:], needle)
		if pos == -1 {
			break
		}
		actual := index + pos

		contextStart := max(0, actual-contextRadius)
		contextEnd := min(len(body), actual+len(needle)+contextRadius)

		results = append(results, SearchResult{
			Text:    body[actual : actual+len(needle)],
			Context: body[contextStart:contextEnd],
		})

		index = actual + len(needle)
		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			break
		}
	}
	return results
}

// GetMetadata returns current page metadata.
func (s *Session) GetMetadata() (map[string]string, error) {
	s.UpdateLastUsed()

	title, err := s.Page.Title()
	if err != nil {
		title = ""
	}

	return map[string]string{
		"title": title,
		"url":   s.Page.URL(),
	}, nil
}
