// Package browser wraps Playwright browser automation behind a small
// session-based API for the surf CLI.
//
// A SessionManager owns the Playwright driver and a set of named sessions;
// each Session bundles a browser, an isolated context, and one page, and
// exposes the operations the CLI surfaces as subcommands: Navigate, Click,
// Fill, Wait, Screenshot, Evaluate, ExtractContent, and Search.
//
// The package performs no retries itself. Callers wrap each session
// operation in a resilience executor with the preset matching the operation
// category (connection, interactive, network, filesystem).
//
//	manager := browser.NewSessionManager()
//	if err := manager.Initialize(); err != nil { ... }
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("default", browser.SessionOptions{
//	    Headless: true,
//	})
//	err = session.Navigate("https://example.com", browser.NavigateOptions{
//	    WaitUntil: "load",
//	})
package browser
