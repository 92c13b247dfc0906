// Package docdex indexes documentation sets from GitHub repositories or
// arbitrary websites into a local cache and exposes navigation, retrieval,
// and full-text search over that cache.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., sqlite/, scrape/, clean/).
package docdex
