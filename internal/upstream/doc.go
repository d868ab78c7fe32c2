// Package upstream is the HTTP client for the remote trading API that feeds
// the dashboard: stock and crypto quotes, autotrader and manual positions,
// portfolio analytics and alerts.
//
// All resource calls go to BaseURL + "/api/v1"; the health probe lives at the
// root (BaseURL + "/health") with its own shorter timeout. Non-2xx responses
// are returned as *APIError. The client does no caching; see package
// dashboard for the cached service layer built on top of it.
package upstream
